// Package identity derives the caller's identity from the request's bearer
// token and carries it through the request context.
package identity

import (
	"context"
	"errors"
)

var ErrNotAuthenticated = errors.New("Not Authenticated")

// State describes what the request's credentials established.
type State int

const (
	// Anonymous means no credentials were presented.
	Anonymous State = iota
	// Authenticated means a valid token was presented.
	Authenticated
	// Invalid means credentials were presented but could not be verified.
	Invalid
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

// Identity is the request-scoped caller. The zero value is anonymous.
type Identity struct {
	State    State
	ReaderID string
	Username string
	// Err holds the verification failure of an Invalid identity.
	Err error
}

// Require returns the reader id of an authenticated identity and
// ErrNotAuthenticated otherwise.
func (id Identity) Require() (string, error) {
	if id.State != Authenticated || id.ReaderID == "" {
		return "", ErrNotAuthenticated
	}
	return id.ReaderID, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, or an anonymous identity.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
