package identity

import (
	"context"
	"ctchen222/booklist/internal/credential"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newCredentials(t *testing.T) *credential.Service {
	t.Helper()
	creds, err := credential.NewService("identity-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	return creds
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		wantID  string
		wantErr error
	}{
		{"anonymous", Identity{}, "", ErrNotAuthenticated},
		{"invalid", Identity{State: Invalid, Err: credential.ErrInvalidToken}, "", ErrNotAuthenticated},
		{"authenticated", Identity{State: Authenticated, ReaderID: "r1"}, "r1", nil},
		{"authenticated without id", Identity{State: Authenticated}, "", ErrNotAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.id.Require()
			assert.Equal(t, tt.wantID, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, "Not Authenticated", ErrNotAuthenticated.Error())
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	assert.Equal(t, Anonymous, FromContext(context.Background()).State)

	ctx := NewContext(context.Background(), Identity{State: Authenticated, ReaderID: "r1"})
	assert.Equal(t, "r1", FromContext(ctx).ReaderID)
}

func TestBuilder_Build(t *testing.T) {
	creds := newCredentials(t)
	token, err := creds.IssueToken("r1", "alice")
	require.NoError(t, err)

	other, err := credential.NewService("other-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	foreign, err := other.IssueToken("r1", "alice")
	require.NoError(t, err)

	b := NewBuilder(creds, false)
	tests := []struct {
		name   string
		header string
		want   State
	}{
		{"no header", "", Anonymous},
		{"valid bearer", "Bearer " + token, Authenticated},
		{"lowercase scheme", "bearer " + token, Authenticated},
		{"missing scheme", token, Invalid},
		{"empty bearer", "Bearer ", Invalid},
		{"garbage token", "Bearer not.a.token", Invalid},
		{"foreign key", "Bearer " + foreign, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := b.Build(tt.header)
			assert.Equal(t, tt.want, id.State)
			if tt.want == Authenticated {
				assert.Equal(t, "r1", id.ReaderID)
				assert.Equal(t, "alice", id.Username)
			}
			if tt.want == Invalid {
				assert.Error(t, id.Err)
			}
		})
	}
}

func newTestRouter(b *Builder, seen *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(b.Middleware())
	r.GET("/", func(c *gin.Context) {
		*seen = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddleware_LenientPolicy(t *testing.T) {
	var seen Identity
	r := newTestRouter(NewBuilder(newCredentials(t), false), &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Invalid, seen.State)
	_, err := seen.Require()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestMiddleware_StrictPolicy(t *testing.T) {
	creds := newCredentials(t)
	var seen Identity
	r := newTestRouter(NewBuilder(creds, true), &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not Authenticated")

	// Anonymous requests still pass under the strict policy.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Anonymous, seen.State)

	token, err := creds.IssueToken("r1", "alice")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Authenticated, seen.State)
}
