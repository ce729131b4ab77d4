package service

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/events"
	"ctchen222/booklist/internal/validator"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// BookService defines the interface for book-related business logic.
type BookService interface {
	List(ctx context.Context) ([]*models.Book, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Add(ctx context.Context, ownerID string, input *models.AddBookInput) (*models.Book, error)
	MarkDone(ctx context.Context, bookID string, comment *string) (*models.Book, error)
	ResolveMany(ctx context.Context, ids []string) ([]*models.Book, error)
}

type bookService struct {
	books     repository.BookRepository
	tx        repository.Transactor
	publisher events.Publisher
	now       func() time.Time
}

// NewBookService creates a new BookService. publisher may be nil.
func NewBookService(books repository.BookRepository, tx repository.Transactor, publisher events.Publisher) BookService {
	return &bookService{
		books:     books,
		tx:        tx,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every book.
func (s *bookService) List(ctx context.Context) ([]*models.Book, error) {
	return s.books.FindAll(ctx)
}

// Get returns the book with the given id, or nil when none exists.
func (s *bookService) Get(ctx context.Context, id string) (*models.Book, error) {
	return s.books.FindByID(ctx, id)
}

// Add creates a book owned by ownerID and appends it to the owner's book list.
// Both writes commit together.
func (s *bookService) Add(ctx context.Context, ownerID string, input *models.AddBookInput) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookService.Add", trace.WithAttributes(attribute.String("reader.id", ownerID)))
	defer span.End()

	if err := validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var created *models.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		owner, err := repos.Readers.FindByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return ErrReaderNotFound
		}

		book, err := repos.Books.Create(ctx, &models.Book{
			UserID: ownerID,
			Title:  input.Title,
			Author: input.Author,
		})
		if err != nil {
			return err
		}

		books := append(models.IDList{}, owner.Books...)
		books = append(books, book.ID)
		updated, err := repos.Readers.UpdateByID(ctx, ownerID, models.ReaderUpdate{Books: books})
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrReaderNotFound
		}

		created = book
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("book.id", created.ID))
	slog.InfoContext(ctx, "book added", "reader.id", ownerID, "book.id", created.ID)
	s.publish(ctx, events.TypeBookAdded, ownerID, events.BookAddedPayload{
		BookID: created.ID,
		Title:  created.Title,
		Author: created.Author,
	})
	return created, nil
}

// MarkDone sets done and end on the book, and the comment when one is given.
// It returns nil when no book has that id.
func (s *bookService) MarkDone(ctx context.Context, bookID string, comment *string) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookService.MarkDone", trace.WithAttributes(attribute.String("book.id", bookID)))
	defer span.End()

	done := true
	end := s.now()
	book, err := s.books.UpdateByID(ctx, bookID, models.BookUpdate{
		Done:    &done,
		End:     &end,
		Comment: comment,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	slog.InfoContext(ctx, "book finished", "reader.id", book.UserID, "book.id", book.ID)
	s.publish(ctx, events.TypeBookFinished, book.UserID, events.BookFinishedPayload{
		BookID:     book.ID,
		Title:      book.Title,
		Comment:    book.Comment,
		FinishedAt: end,
	})
	return book, nil
}

// ResolveMany fetches every id concurrently and returns the books in the order
// of ids. A missing book leaves nil at its index; any store error fails the call.
func (s *bookService) ResolveMany(ctx context.Context, ids []string) ([]*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookService.ResolveMany", trace.WithAttributes(attribute.Int("book.count", len(ids))))
	defer span.End()

	results := make([]*models.Book, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			book, err := s.books.FindByID(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to resolve book %s: %w", id, err)
			}
			results[i] = book
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

func (s *bookService) publish(ctx context.Context, eventType, readerID string, payload any) {
	if s.publisher == nil {
		return
	}
	event, err := events.New(eventType, readerID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode event", "event.type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "event.type", eventType, "error", err)
	}
}
