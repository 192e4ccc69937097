package models

import (
	"time"

	"github.com/google/uuid"
)

type Answer struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Content    string     `json:"content" db:"content"`
	QuestionID uuid.UUID  `json:"questionId" db:"question_id"`
	AuthorID   *uuid.UUID `json:"authorId,omitempty" db:"author_id"`
	IsSolution bool       `json:"solution" db:"is_solution"` // set by the question's author; more than one may be marked
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
