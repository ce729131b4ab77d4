package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("Wrong email or password")
	ErrReaderNotFound     = errors.New("reader not found")
	ErrInvalidInput       = errors.New("invalid input")
)
