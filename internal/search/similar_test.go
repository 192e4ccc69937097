package search

import (
	"testing"

	"gator-overflow/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func tagged(summary string, tagNames ...string) *models.Question {
	tags := make([]models.Tag, len(tagNames))
	for i, name := range tagNames {
		tags[i] = models.Tag{ID: uuid.New(), Name: name}
	}
	return &models.Question{
		ID:      uuid.New(),
		Summary: summary,
		Content: "content of " + summary,
		Tags:    tags,
	}
}

func summaries(questions []*models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Summary
	}
	return out
}

func TestNoTagsYieldsNothing(t *testing.T) {
	source := tagged("untagged")
	others := []*models.Question{source, tagged("other", "go")}

	assert.Empty(t, FindSimilar(others, source, DefaultLimit))
}

func TestExactMatchesCapAtLimitAndExcludeSource(t *testing.T) {
	source := tagged("source", "go", "http")
	store := []*models.Question{source}
	for i := 0; i < 6; i++ {
		store = append(store, tagged(string(rune('a'+i)), "go", "http"))
	}

	similar := FindSimilar(store, source, DefaultLimit)
	assert.Len(t, similar, 4)
	// Store order is preserved and the source never appears.
	assert.Equal(t, []string{"a", "b", "c", "d"}, summaries(similar))
	for _, q := range similar {
		assert.NotEqual(t, source.ID, q.ID)
	}
}

func TestRelaxationWidensUntilEnoughResults(t *testing.T) {
	source := tagged("source", "go", "http")
	exact := tagged("exact", "go", "http")
	// None of these match both tags, but all match "http" once "go" is
	// dropped on the first relaxation pass.
	wide1 := tagged("wide1", "http")
	wide2 := tagged("wide2", "http", "tls")
	wide3 := tagged("wide3", "http")

	store := []*models.Question{source, wide1, exact, wide2, wide3}
	similar := FindSimilar(store, source, DefaultLimit)

	// The exact match accumulates first, then the relaxed matches in
	// store order, without duplicating the exact match.
	assert.Equal(t, []string{"exact", "wide1", "wide2", "wide3"}, summaries(similar))
}

func TestRelaxationExhaustsAndReturnsPartialResult(t *testing.T) {
	source := tagged("source", "go", "http")
	only := tagged("only", "go")

	similar := FindSimilar([]*models.Question{source, only}, source, DefaultLimit)

	// "go" is dropped first (first-encountered tie-break), leaving
	// "http" which "only" does not carry; the second pass drops "http"
	// and the loop terminates with what accumulated.
	assert.Empty(t, similar)

	reordered := tagged("source2", "http", "go")
	similar = FindSimilar([]*models.Question{reordered, only}, reordered, DefaultLimit)
	assert.Equal(t, []string{"only"}, summaries(similar))
}
