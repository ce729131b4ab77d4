package repository

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type cachedBookRepository struct {
	BookRepository
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedBookRepository wraps next with a Redis read-through cache for FindByID.
// UpdateByID evicts the cached entry. Cache failures fall back to next.
func NewCachedBookRepository(next BookRepository, rdb *redis.Client, ttl time.Duration) BookRepository {
	return &cachedBookRepository{BookRepository: next, rdb: rdb, ttl: ttl}
}

func bookCacheKey(id string) string {
	return fmt.Sprintf("book:%s", id)
}

// FindByID serves the book from Redis when cached, otherwise loads and caches it.
func (r *cachedBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookCache.FindByID", trace.WithAttributes(attribute.String("book.id", id)))
	defer span.End()

	key := bookCacheKey(id)
	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var book models.Book
		if err := json.Unmarshal(data, &book); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &book, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cached book", "book.id", id)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "book cache read failed", "book.id", id, "error", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	book, err := r.BookRepository.FindByID(ctx, id)
	if err != nil || book == nil {
		return book, err
	}

	if data, err := json.Marshal(book); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "book cache write failed", "book.id", id, "error", err)
		}
	}
	return book, nil
}

// UpdateByID updates the book and evicts its cache entry.
func (r *cachedBookRepository) UpdateByID(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error) {
	book, err := r.BookRepository.UpdateByID(ctx, id, update)
	if delErr := r.rdb.Del(ctx, bookCacheKey(id)).Err(); delErr != nil {
		slog.WarnContext(ctx, "book cache eviction failed", "book.id", id, "error", delErr)
	}
	return book, err
}
