package actors

import (
	"gator-overflow/internal/database"
	"gator-overflow/internal/models"
	"gator-overflow/internal/search"
	"gator-overflow/internal/utils"
	"log"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Question operations
type (
	CreateQuestionMsg struct {
		Summary  string
		Content  string
		AuthorID uuid.UUID
		Tags     []string
	}

	GetQuestionMsg struct {
		QuestionID uuid.UUID
	}

	// ListQuestionsMsg filters by substring match over summary/content
	// and by tag membership. Zero values mean "no filter". Results keep
	// store order.
	ListQuestionsMsg struct {
		Query string
		TagID uuid.UUID
	}

	UpdateQuestionMsg struct {
		QuestionID uuid.UUID
		Summary    string
		Content    string
		Tags       []string
	}

	DeleteQuestionMsg struct {
		QuestionID uuid.UUID
	}

	GetSimilarQuestionsMsg struct {
		QuestionID uuid.UUID
	}

	CountQuestionsByAuthorMsg struct {
		AuthorID uuid.UUID
	}

	ListTagsMsg struct{}

	GetCountsMsg struct{}
)

// QuestionActor handles all question-related operations. Questions are
// kept in a map plus an insertion-order slice so listings reflect
// creation order.
type QuestionActor struct {
	questionsByID map[uuid.UUID]*models.Question
	questionOrder []uuid.UUID
	tagsByName    map[string]*models.Tag
	metrics       *utils.MetricsCollector
	db            database.DBAdapter
}

func NewQuestionActor(metrics *utils.MetricsCollector, db database.DBAdapter) actor.Actor {
	return &QuestionActor{
		questionsByID: make(map[uuid.UUID]*models.Question),
		questionOrder: make([]uuid.UUID, 0),
		tagsByName:    make(map[string]*models.Tag),
		metrics:       metrics,
		db:            db,
	}
}

// Receive handles incoming messages
func (a *QuestionActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("QuestionActor started")
		a.loadFromStore()

	case *actor.Stopping:
		log.Printf("QuestionActor stopping")

	case *actor.Stopped:
		log.Printf("QuestionActor stopped")

	case *actor.Restarting:
		log.Printf("QuestionActor restarting")

	case *CreateQuestionMsg:
		a.handleCreateQuestion(context, msg)

	case *GetQuestionMsg:
		a.handleGetQuestion(context, msg)

	case *ListQuestionsMsg:
		a.handleListQuestions(context, msg)

	case *UpdateQuestionMsg:
		a.handleUpdateQuestion(context, msg)

	case *DeleteQuestionMsg:
		a.handleDeleteQuestion(context, msg)

	case *GetSimilarQuestionsMsg:
		a.handleGetSimilar(context, msg)

	case *CountQuestionsByAuthorMsg:
		count := 0
		for _, question := range a.questionsByID {
			if question.AuthorID != nil && *question.AuthorID == msg.AuthorID {
				count++
			}
		}
		context.Respond(count)

	case *ListTagsMsg:
		tags := make([]*models.Tag, 0, len(a.tagsByName))
		for _, tag := range a.tagsByName {
			tags = append(tags, tag)
		}
		context.Respond(tags)

	case *GetCountsMsg:
		context.Respond(len(a.questionsByID))
	}
}

// loadFromStore rehydrates the in-memory state after a restart. The
// store lists rows in insertion order, so questionOrder comes back
// intact.
func (a *QuestionActor) loadFromStore() {
	if a.db == nil {
		return
	}

	tags, err := a.db.GetAllTags(stdctx.Background())
	if err != nil {
		log.Printf("QuestionActor: Failed to load tags: %v", err)
	} else {
		for _, tag := range tags {
			a.tagsByName[tag.Name] = tag
		}
	}

	questions, err := a.db.GetAllQuestions(stdctx.Background())
	if err != nil {
		log.Printf("QuestionActor: Failed to load questions: %v", err)
		return
	}
	for _, question := range questions {
		a.questionsByID[question.ID] = question
		a.questionOrder = append(a.questionOrder, question.ID)
	}
	if len(questions) > 0 {
		log.Printf("QuestionActor: Loaded %d questions from store", len(questions))
	}
}

func (a *QuestionActor) handleCreateQuestion(context actor.Context, msg *CreateQuestionMsg) {
	startTime := time.Now()

	authorID := msg.AuthorID
	now := time.Now()
	newQuestion := &models.Question{
		ID:        uuid.New(),
		Summary:   msg.Summary,
		Content:   msg.Content,
		AuthorID:  &authorID,
		Tags:      a.resolveTags(msg.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	log.Printf("QuestionActor: Creating question: %s", newQuestion.ID)

	if a.db != nil {
		if err := a.db.SaveQuestion(stdctx.Background(), newQuestion); err != nil {
			log.Printf("QuestionActor: Failed to save question: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save question", err))
			return
		}
	}

	a.questionsByID[newQuestion.ID] = newQuestion
	a.questionOrder = append(a.questionOrder, newQuestion.ID)

	a.metrics.AddOperationLatency("create_question", time.Since(startTime))
	context.Respond(newQuestion)
}

func (a *QuestionActor) handleGetQuestion(context actor.Context, msg *GetQuestionMsg) {
	if question, exists := a.questionsByID[msg.QuestionID]; exists {
		context.Respond(question)
		return
	}
	if a.db != nil {
		if question, err := a.db.GetQuestion(stdctx.Background(), msg.QuestionID); err == nil {
			a.questionsByID[question.ID] = question
			a.questionOrder = append(a.questionOrder, question.ID)
			context.Respond(question)
			return
		}
	}
	context.Respond(utils.NewQuestionNotFoundError(msg.QuestionID.String()))
}

func (a *QuestionActor) handleListQuestions(context actor.Context, msg *ListQuestionsMsg) {
	startTime := time.Now()

	questions := make([]*models.Question, 0, len(a.questionOrder))
	for _, id := range a.questionOrder {
		question := a.questionsByID[id]
		if question == nil {
			continue
		}
		if msg.Query != "" && !question.MatchesQuery(msg.Query) {
			continue
		}
		if msg.TagID != uuid.Nil && !question.HasTagID(msg.TagID) {
			continue
		}
		questions = append(questions, question)
	}

	a.metrics.AddOperationLatency("list_questions", time.Since(startTime))
	context.Respond(questions)
}

func (a *QuestionActor) handleUpdateQuestion(context actor.Context, msg *UpdateQuestionMsg) {
	startTime := time.Now()

	question, exists := a.questionsByID[msg.QuestionID]
	if !exists {
		context.Respond(utils.NewQuestionNotFoundError(msg.QuestionID.String()))
		return
	}

	// Stage the edit; memory only changes once the store accepts it.
	updated := *question
	updated.Summary = msg.Summary
	updated.Content = msg.Content
	updated.Tags = a.resolveTags(msg.Tags)
	updated.UpdatedAt = time.Now()

	if a.db != nil {
		if err := a.db.UpdateQuestion(stdctx.Background(), &updated); err != nil {
			log.Printf("QuestionActor: Failed to persist question update: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to update question", err))
			return
		}
	}
	*question = updated

	a.metrics.AddOperationLatency("update_question", time.Since(startTime))
	context.Respond(question)
}

func (a *QuestionActor) handleDeleteQuestion(context actor.Context, msg *DeleteQuestionMsg) {
	startTime := time.Now()

	if _, exists := a.questionsByID[msg.QuestionID]; !exists {
		context.Respond(utils.NewQuestionNotFoundError(msg.QuestionID.String()))
		return
	}

	delete(a.questionsByID, msg.QuestionID)
	for i, id := range a.questionOrder {
		if id == msg.QuestionID {
			a.questionOrder = append(a.questionOrder[:i], a.questionOrder[i+1:]...)
			break
		}
	}

	if a.db != nil {
		if err := a.db.DeleteQuestion(stdctx.Background(), msg.QuestionID); err != nil {
			log.Printf("QuestionActor: Warning: failed to delete question from store: %v", err)
		}
	}

	log.Printf("QuestionActor: Deleted question %s", msg.QuestionID)
	a.metrics.AddOperationLatency("delete_question", time.Since(startTime))
	context.Respond(true)
}

func (a *QuestionActor) handleGetSimilar(context actor.Context, msg *GetSimilarQuestionsMsg) {
	startTime := time.Now()

	source, exists := a.questionsByID[msg.QuestionID]
	if !exists {
		context.Respond(utils.NewQuestionNotFoundError(msg.QuestionID.String()))
		return
	}

	all := make([]*models.Question, 0, len(a.questionOrder))
	for _, id := range a.questionOrder {
		if question := a.questionsByID[id]; question != nil {
			all = append(all, question)
		}
	}

	similar := search.FindSimilar(all, source, search.DefaultLimit)

	a.metrics.AddOperationLatency("similar_questions", time.Since(startTime))
	context.Respond(similar)
}

// resolveTags maps tag names to Tag entities, creating unseen ones.
// Tags are never deleted.
func (a *QuestionActor) resolveTags(names []string) []models.Tag {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		tag, exists := a.tagsByName[name]
		if !exists {
			tag = &models.Tag{ID: uuid.New(), Name: name}
			a.tagsByName[name] = tag
			if a.db != nil {
				if err := a.db.SaveTag(stdctx.Background(), tag); err != nil {
					log.Printf("QuestionActor: Warning: failed to persist tag %q: %v", name, err)
				}
			}
		}
		tags = append(tags, *tag)
	}
	return tags
}
