package actors

import (
	"testing"

	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAnswerActor(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewAnswerActor(utils.NewMetricsCollector(), nil, nil)
	})
	pid := system.Root.Spawn(props)

	questionID := uuid.New()
	otherQuestionID := uuid.New()
	authorID := uuid.New()

	// Create two answers on the same question
	result := askActor(t, system, pid, &CreateAnswerMsg{
		QuestionID: questionID,
		Content:    "First answer",
		AuthorID:   authorID,
	})
	first := result.(*models.Answer)
	assert.Equal(t, questionID, first.QuestionID)
	assert.False(t, first.IsSolution)

	result = askActor(t, system, pid, &CreateAnswerMsg{
		QuestionID: questionID,
		Content:    "Second answer",
		AuthorID:   authorID,
	})
	second := result.(*models.Answer)

	// Listing keeps posting order
	result = askActor(t, system, pid, &ListAnswersMsg{QuestionID: questionID})
	answers := result.([]*models.Answer)
	assert.Len(t, answers, 2)
	assert.Equal(t, first.ID, answers[0].ID)
	assert.Equal(t, second.ID, answers[1].ID)

	// An answer id paired with the wrong question resolves as not found
	result = askActor(t, system, pid, &GetAnswerMsg{AnswerID: first.ID, QuestionID: otherQuestionID})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrAnswerNotFound, appErr.Code)

	result = askActor(t, system, pid, &GetAnswerMsg{AnswerID: first.ID, QuestionID: questionID})
	assert.Equal(t, first.ID, result.(*models.Answer).ID)

	// Update content
	result = askActor(t, system, pid, &UpdateAnswerMsg{AnswerID: first.ID, Content: "Edited"})
	assert.Equal(t, "Edited", result.(*models.Answer).Content)

	// Mark and unmark a solution; both answers may carry the flag
	result = askActor(t, system, pid, &MarkSolutionMsg{AnswerID: first.ID, Mark: true})
	assert.True(t, result.(*models.Answer).IsSolution)
	result = askActor(t, system, pid, &MarkSolutionMsg{AnswerID: second.ID, Mark: true})
	assert.True(t, result.(*models.Answer).IsSolution)

	result = askActor(t, system, pid, &CountAnswersByAuthorMsg{AuthorID: authorID})
	counts := result.(*AuthorAnswerCounts)
	assert.Equal(t, 2, counts.Answers)
	assert.Equal(t, 2, counts.Solutions)

	result = askActor(t, system, pid, &MarkSolutionMsg{AnswerID: second.ID, Mark: false})
	assert.False(t, result.(*models.Answer).IsSolution)

	// Delete one answer directly
	result = askActor(t, system, pid, &DeleteAnswerMsg{AnswerID: second.ID})
	assert.Equal(t, true, result)
	result = askActor(t, system, pid, &ListAnswersMsg{QuestionID: questionID})
	assert.Len(t, result.([]*models.Answer), 1)

	// Question-level cascade reports the removed ids
	result = askActor(t, system, pid, &DeleteAnswersForQuestionMsg{QuestionID: questionID})
	deleted := result.([]uuid.UUID)
	assert.Equal(t, []uuid.UUID{first.ID}, deleted)

	result = askActor(t, system, pid, &CountAnswersByAuthorMsg{AuthorID: authorID})
	assert.Equal(t, 0, result.(*AuthorAnswerCounts).Answers)
}
