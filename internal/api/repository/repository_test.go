package repository

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"ctchen222/booklist/internal/db"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	pool, err := db.Open(db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func createReader(t *testing.T, repo ReaderRepository, email string) *models.Reader {
	t.Helper()
	reader, err := repo.Create(context.Background(), &models.Reader{
		Username:     "reader",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return reader
}

func TestReaderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewReaderRepository(newTestDB(t))

	created, err := repo.Create(ctx, &models.Reader{
		Username:     "alice",
		Email:        "alice@example.com",
		Fullname:     "Alice Liddell",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.Books)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "Alice Liddell", byID.Fullname)
	assert.Equal(t, models.IDList{}, byID.Books)

	byEmail, err := repo.FindOne(ctx, models.ReaderFilter{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReaderRepository_NotFoundIsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewReaderRepository(newTestDB(t))

	reader, err := repo.FindByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, reader)

	reader, err = repo.FindOne(ctx, models.ReaderFilter{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Nil(t, reader)

	reader, err = repo.UpdateByID(ctx, "missing", models.ReaderUpdate{Books: models.IDList{"b1"}})
	assert.NoError(t, err)
	assert.Nil(t, reader)
}

func TestReaderRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewReaderRepository(newTestDB(t))
	createReader(t, repo, "dup@example.com")

	_, err := repo.Create(ctx, &models.Reader{Username: "other", Email: "dup@example.com", PasswordHash: "hash"})
	assert.Error(t, err)
}

func TestReaderRepository_UpdateBooksKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewReaderRepository(newTestDB(t))
	reader := createReader(t, repo, "order@example.com")

	updated, err := repo.UpdateByID(ctx, reader.ID, models.ReaderUpdate{Books: models.IDList{"c", "a", "b"}})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.IDList{"c", "a", "b"}, updated.Books)
}

func TestBookRepository_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	pool := newTestDB(t)
	reader := createReader(t, NewReaderRepository(pool), "books@example.com")
	repo := NewBookRepository(pool)

	before := time.Now().Add(-time.Second)
	book, err := repo.Create(ctx, &models.Book{UserID: reader.ID, Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	require.NotEmpty(t, book.ID)

	stored, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, reader.ID, stored.UserID)
	assert.False(t, stored.Done)
	assert.Nil(t, stored.End)
	assert.True(t, stored.Start.After(before))
}

func TestBookRepository_UnknownOwnerRejected(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))

	_, err := repo.Create(context.Background(), &models.Book{UserID: "ghost", Title: "Dune", Author: "Herbert"})
	assert.Error(t, err)
}

func TestBookRepository_UpdateByID(t *testing.T) {
	ctx := context.Background()
	pool := newTestDB(t)
	reader := createReader(t, NewReaderRepository(pool), "update@example.com")
	repo := NewBookRepository(pool)

	book, err := repo.Create(ctx, &models.Book{UserID: reader.ID, Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	done := true
	end := time.Now().UTC()
	comment := "great"
	updated, err := repo.UpdateByID(ctx, book.ID, models.BookUpdate{Done: &done, End: &end, Comment: &comment})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Done)
	require.NotNil(t, updated.End)
	assert.WithinDuration(t, end, *updated.End, time.Second)
	assert.Equal(t, "great", updated.Comment)

	found, err := repo.FindOne(ctx, models.BookFilter{UserID: reader.ID})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, book.ID, found.ID)

	missing, err := repo.UpdateByID(ctx, "missing", models.BookUpdate{Done: &done})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	pool := newTestDB(t)
	reader := createReader(t, NewReaderRepository(pool), "tx@example.com")
	tx := NewTransactor(pool)

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.Books.Create(ctx, &models.Book{UserID: reader.ID, Title: "Dune", Author: "Herbert"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	books, err := NewBookRepository(pool).FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestTransactor_Commit(t *testing.T) {
	ctx := context.Background()
	pool := newTestDB(t)
	reader := createReader(t, NewReaderRepository(pool), "commit@example.com")
	tx := NewTransactor(pool)

	var bookID string
	err := tx.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		book, err := repos.Books.Create(ctx, &models.Book{UserID: reader.ID, Title: "Dune", Author: "Herbert"})
		if err != nil {
			return err
		}
		bookID = book.ID
		_, err = repos.Readers.UpdateByID(ctx, reader.ID, models.ReaderUpdate{Books: models.IDList{book.ID}})
		return err
	})
	require.NoError(t, err)

	stored, err := NewReaderRepository(pool).FindByID(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IDList{bookID}, stored.Books)
}

func TestIDList_Scan(t *testing.T) {
	var l models.IDList
	require.NoError(t, l.Scan(`["x","y"]`))
	assert.Equal(t, models.IDList{"x", "y"}, l)

	require.NoError(t, l.Scan([]byte(`[]`)))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}
