package service

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/db"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookService_ConcurrentAddOnFileStore(t *testing.T) {
	pool, err := db.Open(filepath.Join(t.TempDir(), "booklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	ctx := context.Background()
	readers := repository.NewReaderRepository(pool)
	owner, err := readers.Create(ctx, &models.Reader{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	svc := NewBookService(repository.NewBookRepository(pool), repository.NewTransactor(pool), nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Add(ctx, owner.ID, &models.AddBookInput{Title: fmt.Sprintf("Book %d", i), Author: "Author"})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "add %d", i)
	}

	stored, err := readers.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Books, n)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, n)
}
