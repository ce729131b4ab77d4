package server

import (
	"bytes"
	"context"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/api/service"
	"ctchen222/booklist/internal/credential"
	"ctchen222/booklist/internal/db"
	"ctchen222/booklist/internal/graph"
	"ctchen222/booklist/internal/identity"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, rejectInvalid bool, checks map[string]HealthCheck) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool, err := db.Open(db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	creds, err := credential.NewService("server-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)

	schema, err := graph.NewSchema(
		service.NewReaderService(repository.NewReaderRepository(pool), creds),
		service.NewBookService(repository.NewBookRepository(pool), repository.NewTransactor(pool), nil),
	)
	require.NoError(t, err)

	return NewServer(identity.NewBuilder(creds, rejectInvalid), graph.NewHandler(schema), nil, checks)
}

func TestWelcome(t *testing.T) {
	srv := newTestServer(t, false, nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/graphql")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false, map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
	})
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	srv = newTestServer(t, false, map[string]HealthCheck{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestGraphQLInvalidTokenPolicy(t *testing.T) {
	body := []byte(`{"query":"{ readers { id } }"}`)
	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer garbage")
		return req
	}

	lenient := newTestServer(t, false, nil)
	w := httptest.NewRecorder()
	lenient.Engine().ServeHTTP(w, newReq())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Not Authenticated")

	strict := newTestServer(t, true, nil)
	w = httptest.NewRecorder()
	strict.Engine().ServeHTTP(w, newReq())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedDisabled(t *testing.T) {
	srv := newTestServer(t, false, nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/feed", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
