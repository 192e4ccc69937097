package models

import (
	"fmt"

	"github.com/google/uuid"
)

// TargetType identifies the kind of content a comment or like attaches to.
// Questions and answers are the only valid kinds.
type TargetType string

const (
	QuestionTarget TargetType = "question"
	AnswerTarget   TargetType = "answer"
)

// Target is a tagged reference to the question or answer an engagement
// row points at.
type Target struct {
	Type TargetType `json:"type" db:"target_type"`
	ID   uuid.UUID  `json:"id" db:"target_id"`
}

func QuestionRef(id uuid.UUID) Target {
	return Target{Type: QuestionTarget, ID: id}
}

func AnswerRef(id uuid.UUID) Target {
	return Target{Type: AnswerTarget, ID: id}
}

// Label renders the target for API payloads, e.g. "Question: <id>".
func (t Target) Label() string {
	switch t.Type {
	case QuestionTarget:
		return fmt.Sprintf("Question: %s", t.ID)
	case AnswerTarget:
		return fmt.Sprintf("Answer: %s", t.ID)
	default:
		return fmt.Sprintf("Unknown: %s", t.ID)
	}
}
