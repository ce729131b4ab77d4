package identity

import (
	"ctchen222/booklist/internal/api/response"
	"ctchen222/booklist/internal/credential"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

var ErrMalformedHeader = errors.New("malformed authorization header")

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*credential.Claims, error)
}

// Builder turns an Authorization header into an Identity.
type Builder struct {
	verifier      TokenVerifier
	rejectInvalid bool
}

// NewBuilder creates a Builder. When rejectInvalid is set the middleware
// refuses requests whose credentials fail verification; otherwise they
// continue as unauthenticated.
func NewBuilder(verifier TokenVerifier, rejectInvalid bool) *Builder {
	return &Builder{verifier: verifier, rejectInvalid: rejectInvalid}
}

// Build derives the identity from the raw Authorization header value.
func (b *Builder) Build(header string) Identity {
	header = strings.TrimSpace(header)
	if header == "" {
		return Identity{State: Anonymous}
	}
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return Identity{State: Invalid, Err: ErrMalformedHeader}
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	claims, err := b.verifier.VerifyToken(token)
	if err != nil {
		return Identity{State: Invalid, Err: err}
	}
	return Identity{
		State:    Authenticated,
		ReaderID: claims.UserID,
		Username: claims.Username,
	}
}

// Middleware attaches the identity to every request context.
func (b *Builder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := b.Build(c.GetHeader("Authorization"))

		if id.State == Invalid {
			slog.DebugContext(ctx, "request carries invalid credentials", "error", id.Err, "reject", b.rejectInvalid)
			if b.rejectInvalid {
				response.ErrorResponse(c, http.StatusUnauthorized, ErrNotAuthenticated.Error())
				c.Abort()
				return
			}
		}

		c.Request = c.Request.WithContext(NewContext(ctx, id))
		c.Next()
	}
}
