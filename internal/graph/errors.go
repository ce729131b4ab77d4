package graph

import (
	"ctchen222/booklist/internal/api/service"
	"ctchen222/booklist/internal/identity"
	"errors"
)

// Error codes reported under "extensions.code".
const (
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeBadUserInput       = "BAD_USER_INPUT"
	CodeReaderNotFound     = "READER_NOT_FOUND"
)

// codedError attaches a machine-readable code to a resolver error.
// graphql-go copies Extensions into the formatted error.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var code string
	switch {
	case errors.Is(err, identity.ErrNotAuthenticated):
		code = CodeNotAuthenticated
	case errors.Is(err, service.ErrInvalidCredentials):
		code = CodeInvalidCredentials
	case errors.Is(err, service.ErrInvalidInput):
		code = CodeBadUserInput
	case errors.Is(err, service.ErrReaderNotFound):
		code = CodeReaderNotFound
	default:
		return err
	}
	return &codedError{err: err, code: code}
}
