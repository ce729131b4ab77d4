package service

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/credential"
	"ctchen222/booklist/internal/validator"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("service")

// Credentials is the subset of the credential service the reader flows need.
type Credentials interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
	IssueToken(readerID, username string) (string, error)
}

// ReaderService defines the interface for reader-related business logic.
type ReaderService interface {
	Register(ctx context.Context, input *models.RegisterInput) (*models.Reader, error)
	Login(ctx context.Context, input *models.LoginInput) (*models.AuthPayload, error)
	List(ctx context.Context) ([]*models.Reader, error)
	Get(ctx context.Context, id string) (*models.Reader, error)
}

type readerService struct {
	readers repository.ReaderRepository
	creds   Credentials

	dummyOnce sync.Once
	dummyHash string
}

// NewReaderService creates a new ReaderService.
func NewReaderService(readers repository.ReaderRepository, creds Credentials) ReaderService {
	return &readerService{readers: readers, creds: creds}
}

// Register validates the input, hashes the password and stores a new reader
// with an empty book list.
func (s *readerService) Register(ctx context.Context, input *models.RegisterInput) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderService.Register")
	defer span.End()

	if err := validator.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
		}
		return nil, err
	}

	reader, err := s.readers.Create(ctx, &models.Reader{
		Username:     input.Username,
		Email:        input.Email,
		Fullname:     input.Fullname,
		PasswordHash: hash,
		Books:        models.IDList{},
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("reader.id", reader.ID))
	slog.InfoContext(ctx, "reader registered", "reader.id", reader.ID)
	return reader, nil
}

// Login checks the email and password and issues a token on success.
// An unknown email and a wrong password fail with the same error.
func (s *readerService) Login(ctx context.Context, input *models.LoginInput) (*models.AuthPayload, error) {
	ctx, span := tracer.Start(ctx, "ReaderService.Login")
	defer span.End()

	if err := validator.Struct(input); err != nil {
		return nil, ErrInvalidCredentials
	}

	reader, err := s.readers.FindOne(ctx, models.ReaderFilter{Email: input.Email})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if reader == nil {
		// Keep the unknown-email path as slow as a real comparison.
		s.creds.VerifyPassword(input.Password, s.dummy())
		return nil, ErrInvalidCredentials
	}
	if !s.creds.VerifyPassword(input.Password, reader.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(reader.ID, reader.Username)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("reader.id", reader.ID))
	return &models.AuthPayload{Token: token, Reader: reader}, nil
}

func (s *readerService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.creds.HashPassword("booklist-dummy-password")
		if err != nil {
			slog.Error("failed to prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// List returns every reader.
func (s *readerService) List(ctx context.Context) ([]*models.Reader, error) {
	return s.readers.FindAll(ctx)
}

// Get returns the reader with the given id, or nil when none exists.
func (s *readerService) Get(ctx context.Context, id string) (*models.Reader, error) {
	ctx, span := tracer.Start(ctx, "ReaderService.Get", trace.WithAttributes(attribute.String("reader.id", id)))
	defer span.End()
	return s.readers.FindByID(ctx, id)
}
