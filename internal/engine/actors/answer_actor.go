package actors

import (
	"gator-overflow/internal/database"
	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"
	"log"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Answer operations
type (
	CreateAnswerMsg struct {
		QuestionID       uuid.UUID
		Content          string
		AuthorID         uuid.UUID
		QuestionAuthorID *uuid.UUID
	}

	// GetAnswerMsg resolves an answer within its question; an answer id
	// paired with the wrong question resolves as not found.
	GetAnswerMsg struct {
		AnswerID   uuid.UUID
		QuestionID uuid.UUID
	}

	ListAnswersMsg struct {
		QuestionID uuid.UUID
	}

	UpdateAnswerMsg struct {
		AnswerID uuid.UUID
		Content  string
	}

	DeleteAnswerMsg struct {
		AnswerID uuid.UUID
	}

	MarkSolutionMsg struct {
		AnswerID uuid.UUID
		Mark     bool
	}

	// DeleteAnswersForQuestionMsg removes every answer of a question and
	// responds with the removed answer ids so the caller can purge
	// engagement targeting them.
	DeleteAnswersForQuestionMsg struct {
		QuestionID uuid.UUID
	}

	CountAnswersByAuthorMsg struct {
		AuthorID uuid.UUID
	}

	AnswerCountsMsg struct{}
)

// AuthorAnswerCounts feeds solution_percent on profiles.
type AuthorAnswerCounts struct {
	Answers   int
	Solutions int
}

// AnswerActor handles all answer-related operations. Per-question
// answer ids are kept in insertion order.
type AnswerActor struct {
	answersByID     map[uuid.UUID]*models.Answer
	questionAnswers map[uuid.UUID][]uuid.UUID
	metrics         *utils.MetricsCollector
	db              database.DBAdapter
	notifierPID     *actor.PID
}

func NewAnswerActor(metrics *utils.MetricsCollector, db database.DBAdapter, notifierPID *actor.PID) actor.Actor {
	return &AnswerActor{
		answersByID:     make(map[uuid.UUID]*models.Answer),
		questionAnswers: make(map[uuid.UUID][]uuid.UUID),
		metrics:         metrics,
		db:              db,
		notifierPID:     notifierPID,
	}
}

// Receive handles incoming messages
func (a *AnswerActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("AnswerActor started")
		a.loadFromStore()

	case *actor.Stopping:
		log.Printf("AnswerActor stopping")

	case *actor.Stopped:
		log.Printf("AnswerActor stopped")

	case *actor.Restarting:
		log.Printf("AnswerActor restarting")

	case *CreateAnswerMsg:
		a.handleCreateAnswer(context, msg)

	case *GetAnswerMsg:
		a.handleGetAnswer(context, msg)

	case *ListAnswersMsg:
		answers := a.answersFor(msg.QuestionID)
		if len(answers) == 0 && a.db != nil {
			answers = a.loadAnswersForQuestion(msg.QuestionID)
		}
		context.Respond(answers)

	case *UpdateAnswerMsg:
		a.handleUpdateAnswer(context, msg)

	case *DeleteAnswerMsg:
		a.handleDeleteAnswer(context, msg)

	case *MarkSolutionMsg:
		a.handleMarkSolution(context, msg)

	case *DeleteAnswersForQuestionMsg:
		a.handleDeleteAnswersForQuestion(context, msg)

	case *CountAnswersByAuthorMsg:
		counts := &AuthorAnswerCounts{}
		for _, answer := range a.answersByID {
			if answer.AuthorID != nil && *answer.AuthorID == msg.AuthorID {
				counts.Answers++
				if answer.IsSolution {
					counts.Solutions++
				}
			}
		}
		context.Respond(counts)

	case *AnswerCountsMsg:
		counts := make(map[uuid.UUID]int, len(a.questionAnswers))
		for questionID, ids := range a.questionAnswers {
			counts[questionID] = len(ids)
		}
		context.Respond(counts)

	case *GetCountsMsg:
		context.Respond(len(a.answersByID))
	}
}

func (a *AnswerActor) loadFromStore() {
	if a.db == nil {
		return
	}
	answers, err := a.db.GetAllAnswers(stdctx.Background())
	if err != nil {
		log.Printf("AnswerActor: Failed to load answers: %v", err)
		return
	}
	for _, answer := range answers {
		a.answersByID[answer.ID] = answer
		a.questionAnswers[answer.QuestionID] = append(a.questionAnswers[answer.QuestionID], answer.ID)
	}
	if len(answers) > 0 {
		log.Printf("AnswerActor: Loaded %d answers from store", len(answers))
	}
}

func (a *AnswerActor) handleCreateAnswer(context actor.Context, msg *CreateAnswerMsg) {
	startTime := time.Now()

	authorID := msg.AuthorID
	now := time.Now()
	newAnswer := &models.Answer{
		ID:         uuid.New(),
		Content:    msg.Content,
		QuestionID: msg.QuestionID,
		AuthorID:   &authorID,
		IsSolution: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	log.Printf("AnswerActor: Creating answer %s for question %s", newAnswer.ID, msg.QuestionID)

	if a.db != nil {
		if err := a.db.SaveAnswer(stdctx.Background(), newAnswer); err != nil {
			log.Printf("AnswerActor: Failed to save answer: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save answer", err))
			return
		}
	}

	a.answersByID[newAnswer.ID] = newAnswer
	a.questionAnswers[msg.QuestionID] = append(a.questionAnswers[msg.QuestionID], newAnswer.ID)

	if a.notifierPID != nil && msg.QuestionAuthorID != nil {
		context.Send(a.notifierPID, &AnswerPostedEvent{
			QuestionID:       msg.QuestionID,
			QuestionAuthorID: msg.QuestionAuthorID,
			AnswerID:         newAnswer.ID,
			AnswerAuthorID:   msg.AuthorID,
		})
	}

	a.metrics.AddOperationLatency("create_answer", time.Since(startTime))
	context.Respond(newAnswer)
}

func (a *AnswerActor) handleGetAnswer(context actor.Context, msg *GetAnswerMsg) {
	answer, exists := a.answersByID[msg.AnswerID]
	if !exists && a.db != nil {
		if loaded, err := a.db.GetAnswer(stdctx.Background(), msg.AnswerID); err == nil {
			a.answersByID[loaded.ID] = loaded
			a.questionAnswers[loaded.QuestionID] = append(a.questionAnswers[loaded.QuestionID], loaded.ID)
			answer, exists = loaded, true
		}
	}
	if !exists || (msg.QuestionID != uuid.Nil && answer.QuestionID != msg.QuestionID) {
		context.Respond(utils.NewAnswerNotFoundError(msg.AnswerID.String()))
		return
	}
	context.Respond(answer)
}

func (a *AnswerActor) handleUpdateAnswer(context actor.Context, msg *UpdateAnswerMsg) {
	startTime := time.Now()

	answer, exists := a.answersByID[msg.AnswerID]
	if !exists {
		context.Respond(utils.NewAnswerNotFoundError(msg.AnswerID.String()))
		return
	}

	// Stage the edit; memory only changes once the store accepts it.
	updated := *answer
	updated.Content = msg.Content
	updated.UpdatedAt = time.Now()

	if a.db != nil {
		if err := a.db.UpdateAnswer(stdctx.Background(), &updated); err != nil {
			log.Printf("AnswerActor: Failed to persist answer update: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to update answer", err))
			return
		}
	}
	*answer = updated

	a.metrics.AddOperationLatency("update_answer", time.Since(startTime))
	context.Respond(answer)
}

func (a *AnswerActor) handleDeleteAnswer(context actor.Context, msg *DeleteAnswerMsg) {
	startTime := time.Now()

	answer, exists := a.answersByID[msg.AnswerID]
	if !exists {
		context.Respond(utils.NewAnswerNotFoundError(msg.AnswerID.String()))
		return
	}

	a.removeAnswer(answer)

	if a.db != nil {
		if err := a.db.DeleteAnswer(stdctx.Background(), msg.AnswerID); err != nil {
			log.Printf("AnswerActor: Warning: failed to delete answer from store: %v", err)
		}
	}

	log.Printf("AnswerActor: Deleted answer %s", msg.AnswerID)
	a.metrics.AddOperationLatency("delete_answer", time.Since(startTime))
	context.Respond(true)
}

// handleMarkSolution flips the solution flag. Multiple answers of one
// question may carry the flag; there is no single-accepted invariant.
func (a *AnswerActor) handleMarkSolution(context actor.Context, msg *MarkSolutionMsg) {
	startTime := time.Now()

	answer, exists := a.answersByID[msg.AnswerID]
	if !exists {
		context.Respond(utils.NewAnswerNotFoundError(msg.AnswerID.String()))
		return
	}

	updated := *answer
	updated.IsSolution = msg.Mark
	updated.UpdatedAt = time.Now()

	if a.db != nil {
		if err := a.db.UpdateAnswer(stdctx.Background(), &updated); err != nil {
			log.Printf("AnswerActor: Failed to persist solution mark: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to update answer", err))
			return
		}
	}
	*answer = updated

	log.Printf("AnswerActor: Answer %s solution=%t", answer.ID, answer.IsSolution)
	a.metrics.AddOperationLatency("mark_solution", time.Since(startTime))
	context.Respond(answer)
}

func (a *AnswerActor) handleDeleteAnswersForQuestion(context actor.Context, msg *DeleteAnswersForQuestionMsg) {
	ids := a.questionAnswers[msg.QuestionID]
	deleted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if answer, exists := a.answersByID[id]; exists {
			delete(a.answersByID, answer.ID)
			deleted = append(deleted, answer.ID)
		}
	}
	delete(a.questionAnswers, msg.QuestionID)

	// Postgres cascades these via the question foreign key; nothing to
	// delete per answer when the question row goes.
	log.Printf("AnswerActor: Deleted %d answers for question %s", len(deleted), msg.QuestionID)
	context.Respond(deleted)
}

// loadAnswersForQuestion backfills one question's answers from the
// store when memory has none.
func (a *AnswerActor) loadAnswersForQuestion(questionID uuid.UUID) []*models.Answer {
	answers, err := a.db.GetAnswersByQuestion(stdctx.Background(), questionID)
	if err != nil {
		log.Printf("AnswerActor: Failed to load answers for question %s: %v", questionID, err)
		return []*models.Answer{}
	}
	for _, answer := range answers {
		if _, cached := a.answersByID[answer.ID]; cached {
			continue
		}
		a.answersByID[answer.ID] = answer
		a.questionAnswers[questionID] = append(a.questionAnswers[questionID], answer.ID)
	}
	return a.answersFor(questionID)
}

func (a *AnswerActor) answersFor(questionID uuid.UUID) []*models.Answer {
	ids := a.questionAnswers[questionID]
	answers := make([]*models.Answer, 0, len(ids))
	for _, id := range ids {
		if answer := a.answersByID[id]; answer != nil {
			answers = append(answers, answer)
		}
	}
	return answers
}

func (a *AnswerActor) removeAnswer(answer *models.Answer) {
	delete(a.answersByID, answer.ID)
	ids := a.questionAnswers[answer.QuestionID]
	for i, id := range ids {
		if id == answer.ID {
			a.questionAnswers[answer.QuestionID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}
