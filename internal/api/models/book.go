package models

import "time"

// Book is a title tracked by a single owning reader.
type Book struct {
	ID      string     `db:"id" json:"id"`
	UserID  string     `db:"user_id" json:"userId"`
	Title   string     `db:"title" json:"title"`
	Author  string     `db:"author" json:"author"`
	Comment string     `db:"comment" json:"comment"`
	Done    bool       `db:"done" json:"done"`
	Start   time.Time  `db:"started_at" json:"start"`
	End     *time.Time `db:"finished_at" json:"end"`
}

// BookFilter selects a single book by any non-empty field.
type BookFilter struct {
	UserID string
	Title  string
}

// BookUpdate carries the fields UpdateByID may change. Nil fields are left as-is.
type BookUpdate struct {
	Done    *bool
	End     *time.Time
	Comment *string
}

// AddBookInput defines the arguments of the addBook mutation.
type AddBookInput struct {
	Title  string `validate:"required,max=256"`
	Author string `validate:"required,max=256"`
}
