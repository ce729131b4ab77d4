package repository

//go:generate mockgen -source=reader_repository.go -destination=mocks/reader_repository_mock.go -package=mocks

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository")

const readerColumns = `id, username, email, fullname, password_hash, books`

// ReaderRepository defines the record-store operations on the readers collection.
type ReaderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Reader, error)
	FindAll(ctx context.Context) ([]*models.Reader, error)
	FindOne(ctx context.Context, filter models.ReaderFilter) (*models.Reader, error)
	Create(ctx context.Context, reader *models.Reader) (*models.Reader, error)
	UpdateByID(ctx context.Context, id string, update models.ReaderUpdate) (*models.Reader, error)
}

type sqliteReaderRepository struct {
	db sqlx.ExtContext
}

// NewReaderRepository creates a SQLite-based ReaderRepository. db may be a pool or a transaction.
func NewReaderRepository(db sqlx.ExtContext) ReaderRepository {
	return &sqliteReaderRepository{db: db}
}

// FindByID returns the reader with the given id, or nil when none exists.
func (r *sqliteReaderRepository) FindByID(ctx context.Context, id string) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderRepository.FindByID", trace.WithAttributes(attribute.String("reader.id", id)))
	defer span.End()

	var reader models.Reader
	query := `SELECT ` + readerColumns + ` FROM readers WHERE id = ?`
	if err := sqlx.GetContext(ctx, r.db, &reader, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get reader by id: %w", err)
	}
	return &reader, nil
}

// FindAll returns every reader.
func (r *sqliteReaderRepository) FindAll(ctx context.Context) ([]*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderRepository.FindAll")
	defer span.End()

	readers := []*models.Reader{}
	query := `SELECT ` + readerColumns + ` FROM readers ORDER BY rowid`
	if err := sqlx.SelectContext(ctx, r.db, &readers, query); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list readers: %w", err)
	}
	return readers, nil
}

// FindOne returns the first reader matching every non-empty filter field, or nil.
func (r *sqliteReaderRepository) FindOne(ctx context.Context, filter models.ReaderFilter) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderRepository.FindOne")
	defer span.End()

	var (
		conds []string
		args  []any
	)
	if filter.Email != "" {
		conds = append(conds, "email = ?")
		args = append(args, filter.Email)
	}
	if filter.Username != "" {
		conds = append(conds, "username = ?")
		args = append(args, filter.Username)
	}

	query := `SELECT ` + readerColumns + ` FROM readers`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY rowid LIMIT 1`

	var reader models.Reader
	if err := sqlx.GetContext(ctx, r.db, &reader, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find reader: %w", err)
	}
	return &reader, nil
}

// Create assigns an id to reader and inserts it.
func (r *sqliteReaderRepository) Create(ctx context.Context, reader *models.Reader) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderRepository.Create")
	defer span.End()

	created := *reader
	created.ID = uuid.New().String()
	if created.Books == nil {
		created.Books = models.IDList{}
	}

	query := `INSERT INTO readers (` + readerColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		created.ID, created.Username, created.Email, created.Fullname, created.PasswordHash, created.Books)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	span.SetAttributes(attribute.String("reader.id", created.ID))
	return &created, nil
}

// UpdateByID applies the non-nil fields of update and returns the stored reader,
// or nil when no reader has that id.
func (r *sqliteReaderRepository) UpdateByID(ctx context.Context, id string, update models.ReaderUpdate) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderRepository.UpdateByID", trace.WithAttributes(attribute.String("reader.id", id)))
	defer span.End()

	var (
		sets []string
		args []any
	)
	if update.Fullname != nil {
		sets = append(sets, "fullname = ?")
		args = append(args, *update.Fullname)
	}
	if update.Books != nil {
		sets = append(sets, "books = ?")
		args = append(args, update.Books)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE readers SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update reader: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
