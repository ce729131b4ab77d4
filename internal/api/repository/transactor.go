package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Repositories groups the collection repositories bound to one connection or transaction.
type Repositories struct {
	Readers ReaderRepository
	Books   BookRepository
}

// Transactor runs a unit of work whose writes commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type sqliteTransactor struct {
	db *sqlx.DB
}

// NewTransactor creates a Transactor over a SQLite pool.
func NewTransactor(db *sqlx.DB) Transactor {
	return &sqliteTransactor{db: db}
}

// WithinTx begins a transaction, calls fn with repositories bound to it and
// commits when fn returns nil. Any error from fn rolls the transaction back.
func (t *sqliteTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	ctx, span := tracer.Start(ctx, "Transactor.WithinTx")
	defer span.End()

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := Repositories{
		Readers: NewReaderRepository(tx),
		Books:   NewBookRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "failed to roll back transaction", "error", rbErr)
		}
		span.RecordError(err)
		return err
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
