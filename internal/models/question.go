package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Summary   string     `json:"summary" db:"summary"`
	Content   string     `json:"content" db:"content"`
	AuthorID  *uuid.UUID `json:"authorId,omitempty" db:"author_id"` // nil when the author account is gone
	Tags      []Tag      `json:"tags"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// TagNames returns the question's tag names in the order they were attached.
func (q *Question) TagNames() []string {
	names := make([]string, len(q.Tags))
	for i, tag := range q.Tags {
		names[i] = tag.Name
	}
	return names
}

// HasTag reports whether the question carries the named tag.
func (q *Question) HasTag(name string) bool {
	for _, tag := range q.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the question carries every one of the names.
func (q *Question) HasAllTags(names []string) bool {
	for _, name := range names {
		if !q.HasTag(name) {
			return false
		}
	}
	return true
}

// HasTagID reports whether the question carries the tag with the given id.
func (q *Question) HasTagID(id uuid.UUID) bool {
	for _, tag := range q.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether the search term appears in the summary or
// content, case-insensitively.
func (q *Question) MatchesQuery(query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(q.Summary), query) ||
		strings.Contains(strings.ToLower(q.Content), query)
}
