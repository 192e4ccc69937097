// Package search implements the related-questions lookup shown on the
// question detail page.
package search

import (
	"gator-overflow/internal/models"

	"github.com/google/uuid"
)

// DefaultLimit is how many related questions the detail page shows.
const DefaultLimit = 4

// FindSimilar selects up to limit questions sharing tags with source,
// using a relaxation loop: it first requires every one of source's
// tags, then repeatedly drops the lowest-scoring tag to widen the match
// until enough results accumulate or no tags remain. A tag's score is
// the number of passes it has survived, so ties break on the order the
// tags appear on the question and the earliest-attached tag is dropped
// first. Candidates are scanned in store order and accumulate in the
// order they are first matched; source itself is never returned.
//
// The remaining tag set strictly shrinks, so the loop runs at most
// len(source.Tags)+1 passes. A question with no tags yields an empty
// result.
func FindSimilar(questions []*models.Question, source *models.Question, limit int) []*models.Question {
	if limit <= 0 {
		limit = DefaultLimit
	}

	remaining := source.TagNames()
	scores := make(map[string]int, len(remaining))
	seen := map[uuid.UUID]bool{source.ID: true}
	var accumulated []*models.Question

	for len(remaining) > 0 {
		for _, name := range remaining {
			scores[name]++
		}

		for _, candidate := range questions {
			if seen[candidate.ID] {
				continue
			}
			if candidate.HasAllTags(remaining) {
				accumulated = append(accumulated, candidate)
				seen[candidate.ID] = true
			}
		}

		if len(accumulated) >= limit {
			return accumulated[:limit]
		}

		// Drop the weakest tag; the first minimum wins.
		weakest := 0
		for i, name := range remaining {
			if scores[name] < scores[remaining[weakest]] {
				weakest = i
			}
		}
		remaining = append(remaining[:weakest], remaining[weakest+1:]...)
	}

	return accumulated
}
