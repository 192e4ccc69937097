package actors

import (
	"testing"

	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestQuestionActor(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewQuestionActor(utils.NewMetricsCollector(), nil)
	})
	pid := system.Root.Spawn(props)

	authorID := uuid.New()

	// Create a question with two tags
	result := askActor(t, system, pid, &CreateQuestionMsg{
		Summary:  "Why does my channel deadlock?",
		Content:  "Two goroutines both block on send.",
		AuthorID: authorID,
		Tags:     []string{"go", "channels"},
	})
	question := result.(*models.Question)
	assert.Equal(t, "Why does my channel deadlock?", question.Summary)
	assert.Len(t, question.Tags, 2)
	assert.Equal(t, "go", question.Tags[0].Name)

	// A second question reuses the existing tag entities
	result = askActor(t, system, pid, &CreateQuestionMsg{
		Summary:  "Select with default spins hot",
		Content:  "The loop burns a core.",
		AuthorID: authorID,
		Tags:     []string{"go", "channels"},
	})
	second := result.(*models.Question)
	assert.Equal(t, question.Tags[0].ID, second.Tags[0].ID, "tag names map to stable tag ids")

	// Listing keeps creation order
	result = askActor(t, system, pid, &ListQuestionsMsg{})
	questions := result.([]*models.Question)
	assert.Len(t, questions, 2)
	assert.Equal(t, question.ID, questions[0].ID)
	assert.Equal(t, second.ID, questions[1].ID)

	// Substring search is case-insensitive over summary and content
	result = askActor(t, system, pid, &ListQuestionsMsg{Query: "DEADLOCK"})
	questions = result.([]*models.Question)
	assert.Len(t, questions, 1)
	assert.Equal(t, question.ID, questions[0].ID)

	// Tag filter
	result = askActor(t, system, pid, &ListQuestionsMsg{TagID: second.Tags[0].ID})
	questions = result.([]*models.Question)
	assert.Len(t, questions, 2)

	// The second question carries every tag of the first, so it matches
	// on the strictest pass
	result = askActor(t, system, pid, &GetSimilarQuestionsMsg{QuestionID: question.ID})
	similar := result.([]*models.Question)
	assert.Len(t, similar, 1)
	assert.Equal(t, second.ID, similar[0].ID)

	// Update replaces content and tags
	result = askActor(t, system, pid, &UpdateQuestionMsg{
		QuestionID: question.ID,
		Summary:    "Channel deadlock, minimal repro",
		Content:    "Reduced to ten lines.",
		Tags:       []string{"channels"},
	})
	updated := result.(*models.Question)
	assert.Equal(t, "Channel deadlock, minimal repro", updated.Summary)
	assert.Len(t, updated.Tags, 1)

	// Author metrics
	result = askActor(t, system, pid, &CountQuestionsByAuthorMsg{AuthorID: authorID})
	assert.Equal(t, 2, result.(int))
	result = askActor(t, system, pid, &CountQuestionsByAuthorMsg{AuthorID: uuid.New()})
	assert.Equal(t, 0, result.(int))

	// Delete removes the question from listings
	result = askActor(t, system, pid, &DeleteQuestionMsg{QuestionID: question.ID})
	assert.Equal(t, true, result)

	result = askActor(t, system, pid, &GetQuestionMsg{QuestionID: question.ID})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrQuestionNotFound, appErr.Code)

	result = askActor(t, system, pid, &ListQuestionsMsg{})
	assert.Len(t, result.([]*models.Question), 1)

	// Tags survive question deletion
	result = askActor(t, system, pid, &ListTagsMsg{})
	assert.Len(t, result.([]*models.Tag), 2)
}

func TestQuestionActorSimilarOrdering(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewQuestionActor(utils.NewMetricsCollector(), nil)
	})
	pid := system.Root.Spawn(props)

	authorID := uuid.New()
	create := func(summary string, tags []string) *models.Question {
		result := askActor(t, system, pid, &CreateQuestionMsg{
			Summary:  summary,
			Content:  "content",
			AuthorID: authorID,
			Tags:     tags,
		})
		return result.(*models.Question)
	}

	source := create("source", []string{"a", "b"})
	partial := create("matches after relaxation", []string{"b", "z"})
	exact := create("matches both tags", []string{"a", "b"})
	create("no shared tags", []string{"x", "y"})

	// The exact match accumulates on the strict pass; dropping "a"
	// widens the match to reach the partial one.
	result := askActor(t, system, pid, &GetSimilarQuestionsMsg{QuestionID: source.ID})
	similar := result.([]*models.Question)
	assert.Len(t, similar, 2)
	assert.Equal(t, exact.ID, similar[0].ID)
	assert.Equal(t, partial.ID, similar[1].ID)
}
