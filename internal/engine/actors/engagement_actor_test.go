package actors

import (
	"testing"

	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEngagementActor(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(utils.NewMetricsCollector(), nil)
	})
	pid := system.Root.Spawn(props)

	authorID := uuid.New()
	otherID := uuid.New()
	question := models.QuestionRef(uuid.New())
	answer := models.AnswerRef(uuid.New())

	// Comment on both kinds of target
	result := askActor(t, system, pid, &CreateCommentMsg{
		Content:  "Question comment",
		AuthorID: authorID,
		Target:   question,
	})
	comment := result.(*models.Comment)
	assert.Equal(t, question, comment.Target)

	result = askActor(t, system, pid, &CreateCommentMsg{
		Content:  "Answer comment",
		AuthorID: authorID,
		Target:   answer,
	})
	assert.Equal(t, answer, result.(*models.Comment).Target)

	// One like per author and target; a repeat conflicts
	result = askActor(t, system, pid, &CreateLikeMsg{AuthorID: authorID, Target: question})
	like := result.(*models.Like)
	assert.Equal(t, authorID, like.AuthorID)

	result = askActor(t, system, pid, &CreateLikeMsg{AuthorID: authorID, Target: question})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrAlreadyLiked, appErr.Code)

	// A different author may still like, and the same author may like a
	// different target
	result = askActor(t, system, pid, &CreateLikeMsg{AuthorID: otherID, Target: question})
	assert.IsType(t, &models.Like{}, result)
	result = askActor(t, system, pid, &CreateLikeMsg{AuthorID: authorID, Target: answer})
	assert.IsType(t, &models.Like{}, result)

	// Engagement view bundles comments and likes per target
	result = askActor(t, system, pid, &GetTargetEngagementMsg{Target: question})
	engagement := result.(*TargetEngagement)
	assert.Len(t, engagement.Comments, 1)
	assert.Len(t, engagement.Likes, 2)

	// Per-kind counts only see their own target type
	result = askActor(t, system, pid, &LikeCountsMsg{Type: models.QuestionTarget})
	likeCounts := result.(map[uuid.UUID]int)
	assert.Equal(t, 2, likeCounts[question.ID])
	_, present := likeCounts[answer.ID]
	assert.False(t, present)

	result = askActor(t, system, pid, &CommentCountsMsg{Type: models.AnswerTarget})
	commentCounts := result.(map[uuid.UUID]int)
	assert.Equal(t, 1, commentCounts[answer.ID])

	// Removing a like the author never placed is a not-found
	result = askActor(t, system, pid, &RemoveLikeMsg{AuthorID: otherID, Target: answer})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Removing a real like frees the author to like again
	result = askActor(t, system, pid, &RemoveLikeMsg{AuthorID: authorID, Target: question})
	assert.Equal(t, true, result)
	result = askActor(t, system, pid, &CreateLikeMsg{AuthorID: authorID, Target: question})
	assert.IsType(t, &models.Like{}, result)

	// Purging targets drops every comment and like pointing at them
	result = askActor(t, system, pid, &PurgeTargetsMsg{Targets: []models.Target{question, answer}})
	assert.Equal(t, true, result)

	result = askActor(t, system, pid, &GetTargetEngagementMsg{Target: question})
	engagement = result.(*TargetEngagement)
	assert.Empty(t, engagement.Comments)
	assert.Empty(t, engagement.Likes)

	result = askActor(t, system, pid, &GetCountsMsg{})
	assert.Equal(t, 0, result.(int))
}
