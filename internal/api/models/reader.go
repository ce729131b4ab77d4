package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Reader represents a registered reader in the database.
type Reader struct {
	ID           string `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	Fullname     string `db:"fullname" json:"fullname"`
	PasswordHash string `db:"password_hash" json:"-"`
	Books        IDList `db:"books" json:"-"`
}

// ReaderFilter selects a single reader by any non-empty field.
type ReaderFilter struct {
	Email    string
	Username string
}

// ReaderUpdate carries the fields UpdateByID may change. Nil fields are left as-is.
type ReaderUpdate struct {
	Fullname *string
	Books    IDList
}

// IDList is an ordered list of record ids stored as a JSON array.
type IDList []string

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("failed to decode id list: %w", err)
	}
	*l = ids
	return nil
}

// RegisterInput defines the arguments of the register mutation.
type RegisterInput struct {
	Username string `validate:"required,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=72"`
	Fullname string `validate:"max=128"`
}

// LoginInput defines the arguments of the login mutation.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// AuthPayload is returned by a successful login. It is never persisted.
type AuthPayload struct {
	Token  string  `json:"token"`
	Reader *Reader `json:"user"`
}
