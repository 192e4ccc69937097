package models

import "github.com/google/uuid"

// Tag labels a question. Tags are created ad hoc when a question first
// uses the name and are never deleted.
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}
