package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a short remark attached to a question or an answer.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id"`
	Target    Target    `json:"target"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Like marks approval of a question or an answer. One like per
// (author, target) pair; duplicates are rejected.
type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id"`
	Target    Target    `json:"target"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
