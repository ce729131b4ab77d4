// Package credential hashes reader passwords and issues the signed bearer
// tokens that prove a reader's identity.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token signing key is empty")

	// ErrPasswordTooLong is returned for passwords over bcrypt's 72-byte limit.
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service owns the process-wide signing key and hashing cost.
type Service struct {
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewService creates a credential Service. The secret must not be empty.
func NewService(secret string, ttl time.Duration, bcryptCost int) (*Service, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Service{
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}, nil
}

// HashPassword creates a salted bcrypt hash of the plaintext password.
func (s *Service) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func (s *Service) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token binding the reader id and username.
func (s *Service) IssueToken(readerID, username string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   readerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   readerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token. Every failure wraps ErrInvalidToken.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
