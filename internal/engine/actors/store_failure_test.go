package actors

import (
	"context"
	"errors"
	"testing"

	"gator-overflow/internal/database"
	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// brokenUpdateStore accepts creates but rejects every update, so tests
// can observe what the actors do when a write-through fails mid-edit.
// The embedded interface covers the methods these flows never touch.
type brokenUpdateStore struct {
	database.DBAdapter
}

func (s *brokenUpdateStore) GetAllTags(ctx context.Context) ([]*models.Tag, error) {
	return nil, nil
}

func (s *brokenUpdateStore) GetAllQuestions(ctx context.Context) ([]*models.Question, error) {
	return nil, nil
}

func (s *brokenUpdateStore) GetAllAnswers(ctx context.Context) ([]*models.Answer, error) {
	return nil, nil
}

func (s *brokenUpdateStore) SaveTag(ctx context.Context, tag *models.Tag) error {
	return nil
}

func (s *brokenUpdateStore) SaveQuestion(ctx context.Context, question *models.Question) error {
	return nil
}

func (s *brokenUpdateStore) SaveAnswer(ctx context.Context, answer *models.Answer) error {
	return nil
}

func (s *brokenUpdateStore) UpdateQuestion(ctx context.Context, question *models.Question) error {
	return errors.New("connection reset by peer")
}

func (s *brokenUpdateStore) UpdateAnswer(ctx context.Context, answer *models.Answer) error {
	return errors.New("connection reset by peer")
}

func TestQuestionUpdateKeepsMemoryWhenStoreFails(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewQuestionActor(utils.NewMetricsCollector(), &brokenUpdateStore{})
	})
	pid := system.Root.Spawn(props)

	result := askActor(t, system, pid, &CreateQuestionMsg{
		Summary:  "Original summary",
		Content:  "Original content",
		AuthorID: uuid.New(),
		Tags:     []string{"go"},
	})
	question, ok := result.(*models.Question)
	assert.True(t, ok, "unexpected response: %v", result)

	result = askActor(t, system, pid, &UpdateQuestionMsg{
		QuestionID: question.ID,
		Summary:    "Edited summary",
		Content:    "Edited content",
		Tags:       []string{"go", "actors"},
	})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)

	// The failed write must not leave the edit live in memory
	result = askActor(t, system, pid, &GetQuestionMsg{QuestionID: question.ID})
	fetched, ok := result.(*models.Question)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, "Original summary", fetched.Summary)
	assert.Equal(t, "Original content", fetched.Content)
	assert.Len(t, fetched.Tags, 1)
}

func TestAnswerUpdateKeepsMemoryWhenStoreFails(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewAnswerActor(utils.NewMetricsCollector(), &brokenUpdateStore{}, nil)
	})
	pid := system.Root.Spawn(props)

	questionID := uuid.New()
	result := askActor(t, system, pid, &CreateAnswerMsg{
		QuestionID: questionID,
		Content:    "Original answer",
		AuthorID:   uuid.New(),
	})
	answer, ok := result.(*models.Answer)
	assert.True(t, ok, "unexpected response: %v", result)

	result = askActor(t, system, pid, &UpdateAnswerMsg{
		AnswerID: answer.ID,
		Content:  "Edited answer",
	})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)

	result = askActor(t, system, pid, &MarkSolutionMsg{AnswerID: answer.ID, Mark: true})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)

	result = askActor(t, system, pid, &GetAnswerMsg{AnswerID: answer.ID, QuestionID: questionID})
	fetched, ok := result.(*models.Answer)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, "Original answer", fetched.Content)
	assert.False(t, fetched.IsSolution)
}
