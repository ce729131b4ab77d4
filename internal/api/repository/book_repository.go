package repository

//go:generate mockgen -source=book_repository.go -destination=mocks/book_repository_mock.go -package=mocks

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const bookColumns = `id, user_id, title, author, comment, done, started_at, finished_at`

// BookRepository defines the record-store operations on the books collection.
type BookRepository interface {
	FindByID(ctx context.Context, id string) (*models.Book, error)
	FindAll(ctx context.Context) ([]*models.Book, error)
	FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	UpdateByID(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error)
}

type sqliteBookRepository struct {
	db sqlx.ExtContext
}

// NewBookRepository creates a SQLite-based BookRepository. db may be a pool or a transaction.
func NewBookRepository(db sqlx.ExtContext) BookRepository {
	return &sqliteBookRepository{db: db}
}

// FindByID returns the book with the given id, or nil when none exists.
func (r *sqliteBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.FindByID", trace.WithAttributes(attribute.String("book.id", id)))
	defer span.End()

	var book models.Book
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	if err := sqlx.GetContext(ctx, r.db, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return &book, nil
}

// FindAll returns every book in creation order.
func (r *sqliteBookRepository) FindAll(ctx context.Context) ([]*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.FindAll")
	defer span.End()

	books := []*models.Book{}
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY rowid`
	if err := sqlx.SelectContext(ctx, r.db, &books, query); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// FindOne returns the first book matching every non-empty filter field, or nil.
func (r *sqliteBookRepository) FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.FindOne")
	defer span.End()

	var (
		conds []string
		args  []any
	)
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Title != "" {
		conds = append(conds, "title = ?")
		args = append(args, filter.Title)
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY rowid LIMIT 1`

	var book models.Book
	if err := sqlx.GetContext(ctx, r.db, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return &book, nil
}

// Create assigns an id to book, defaults its start time to now and inserts it.
func (r *sqliteBookRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Create", trace.WithAttributes(attribute.String("reader.id", book.UserID)))
	defer span.End()

	created := *book
	created.ID = uuid.New().String()
	if created.Start.IsZero() {
		created.Start = time.Now().UTC()
	}

	query := `INSERT INTO books (` + bookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		created.ID, created.UserID, created.Title, created.Author, created.Comment,
		created.Done, created.Start, created.End)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	span.SetAttributes(attribute.String("book.id", created.ID))
	return &created, nil
}

// UpdateByID applies the non-nil fields of update and returns the stored book,
// or nil when no book has that id.
func (r *sqliteBookRepository) UpdateByID(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.UpdateByID", trace.WithAttributes(attribute.String("book.id", id)))
	defer span.End()

	var (
		sets []string
		args []any
	)
	if update.Done != nil {
		sets = append(sets, "done = ?")
		args = append(args, *update.Done)
	}
	if update.End != nil {
		sets = append(sets, "finished_at = ?")
		args = append(args, *update.End)
	}
	if update.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, *update.Comment)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
