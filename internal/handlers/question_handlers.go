package handlers

import (
	"encoding/json"
	"gator-overflow/internal/engine/actors"
	"gator-overflow/internal/models"
	"gator-overflow/internal/permissions"
	"gator-overflow/internal/utils"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// QuestionRequest represents a request to create or update a question
type QuestionRequest struct {
	Summary string   `json:"summary"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// CommentRequest represents a request to comment on a question or answer
type CommentRequest struct {
	Content string `json:"content"`
}

// QuestionListItem is a question with its derived counts inlined.
type QuestionListItem struct {
	*models.Question
	AnswersCount  int `json:"answersCount"`
	CommentsCount int `json:"commentsCount"`
	LikesCount    int `json:"likesCount"`
}

// AnswerDetail is an answer with its engagement inlined.
type AnswerDetail struct {
	*models.Answer
	CommentsCount int               `json:"commentsCount"`
	LikesCount    int               `json:"likesCount"`
	Comments      []*models.Comment `json:"comments"`
	Likes         []*models.Like    `json:"likes"`
}

// QuestionDetail is the full detail view: derived counts, engagement,
// nested answers, and up to 4 similar questions.
type QuestionDetail struct {
	*models.Question
	AnswersCount  int                `json:"answersCount"`
	CommentsCount int                `json:"commentsCount"`
	LikesCount    int                `json:"likesCount"`
	Comments      []*models.Comment  `json:"comments"`
	Likes         []*models.Like     `json:"likes"`
	Answers       []*AnswerDetail    `json:"answers"`
	Similar       []*models.Question `json:"similar"`
}

// HandleQuestions serves the question collection: filtered listing and
// creation.
func (s *Server) HandleQuestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.listQuestions(w, r)
		case http.MethodPost:
			s.createQuestion(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	act := actorID(r)
	if appErr := permissions.Check(act, false, nil); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	var tagID uuid.UUID
	if tagStr := r.URL.Query().Get("tagId"); tagStr != "" {
		parsed, err := uuid.Parse(tagStr)
		if err != nil {
			http.Error(w, "Invalid tag ID format", http.StatusBadRequest)
			return
		}
		tagID = parsed
	}

	result, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.ListQuestionsMsg{
		Query: r.URL.Query().Get("q"),
		TagID: tagID,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	questions := result.([]*models.Question)

	items, appErr := s.buildListItems(questions)
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	switch r.URL.Query().Get("type") {
	case "latest":
		// Creation order reversed: newest first
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	case "best":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].LikesCount > items[j].LikesCount
		})
	case "unanswered":
		unanswered := items[:0]
		for _, item := range items {
			if item.AnswersCount == 0 {
				unanswered = append(unanswered, item)
			}
		}
		items = unanswered
	}

	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) buildListItems(questions []*models.Question) ([]*QuestionListItem, *utils.AppError) {
	answersResult, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.AnswerCountsMsg{})
	if appErr != nil {
		return nil, appErr
	}
	answerCounts := answersResult.(map[uuid.UUID]int)

	likesResult, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.LikeCountsMsg{Type: models.QuestionTarget})
	if appErr != nil {
		return nil, appErr
	}
	likeCounts := likesResult.(map[uuid.UUID]int)

	commentsResult, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.CommentCountsMsg{Type: models.QuestionTarget})
	if appErr != nil {
		return nil, appErr
	}
	commentCounts := commentsResult.(map[uuid.UUID]int)

	items := make([]*QuestionListItem, 0, len(questions))
	for _, question := range questions {
		items = append(items, &QuestionListItem{
			Question:      question,
			AnswersCount:  answerCounts[question.ID],
			CommentsCount: commentCounts[question.ID],
			LikesCount:    likeCounts[question.ID],
		})
	}
	return items, nil
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	act := actorID(r)
	// Creation only requires an authenticated actor
	if appErr := permissions.Check(act, false, nil); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if fields := models.ValidateQuestionFields(req.Summary, req.Content); fields != nil {
		s.respondError(w, utils.NewValidationError(fields))
		return
	}

	result, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.CreateQuestionMsg{
		Summary:  req.Summary,
		Content:  req.Content,
		AuthorID: act,
		Tags:     req.Tags,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusCreated, result)
}

// HandleQuestionRoutes dispatches everything under /questions/{id}:
// detail, update, delete, engagement sub-actions, and the nested answer
// routes.
func (s *Server) HandleQuestionRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(segments) < 2 || segments[0] != "questions" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		questionID, err := uuid.Parse(segments[1])
		if err != nil {
			http.Error(w, "Invalid question ID format", http.StatusBadRequest)
			return
		}

		act := actorID(r)
		if appErr := permissions.Check(act, false, nil); appErr != nil {
			s.respondError(w, appErr)
			return
		}

		// Resolve before authorizing so an unknown id is a 404 for
		// everyone, owner or not.
		question, appErr := s.resolveQuestion(questionID)
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}

		if len(segments) == 2 {
			switch r.Method {
			case http.MethodGet:
				s.serveQuestionDetail(w, question)
			case http.MethodPut:
				s.updateQuestion(w, r, act, question)
			case http.MethodDelete:
				s.deleteQuestion(w, act, question)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if segments[2] == "answers" {
			s.handleAnswerRoutes(w, r, act, question, segments[3:])
			return
		}

		if len(segments) == 3 {
			s.handleEngagementAction(w, r, act, models.QuestionRef(question.ID), segments[2])
			return
		}

		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (s *Server) resolveQuestion(questionID uuid.UUID) (*models.Question, *utils.AppError) {
	result, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.GetQuestionMsg{QuestionID: questionID})
	if appErr != nil {
		return nil, appErr
	}
	question, ok := result.(*models.Question)
	if !ok {
		return nil, utils.NewAppError(utils.ErrDatabase, "unexpected question response", nil)
	}
	return question, nil
}

func (s *Server) serveQuestionDetail(w http.ResponseWriter, question *models.Question) {
	engagement, appErr := s.targetEngagement(models.QuestionRef(question.ID))
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	answersResult, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.ListAnswersMsg{QuestionID: question.ID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	answers := answersResult.([]*models.Answer)

	answerDetails := make([]*AnswerDetail, 0, len(answers))
	for _, answer := range answers {
		answerEngagement, appErr := s.targetEngagement(models.AnswerRef(answer.ID))
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}
		answerDetails = append(answerDetails, &AnswerDetail{
			Answer:        answer,
			CommentsCount: len(answerEngagement.Comments),
			LikesCount:    len(answerEngagement.Likes),
			Comments:      answerEngagement.Comments,
			Likes:         answerEngagement.Likes,
		})
	}

	similarResult, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.GetSimilarQuestionsMsg{QuestionID: question.ID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusOK, &QuestionDetail{
		Question:      question,
		AnswersCount:  len(answers),
		CommentsCount: len(engagement.Comments),
		LikesCount:    len(engagement.Likes),
		Comments:      engagement.Comments,
		Likes:         engagement.Likes,
		Answers:       answerDetails,
		Similar:       similarResult.([]*models.Question),
	})
}

func (s *Server) targetEngagement(target models.Target) (*actors.TargetEngagement, *utils.AppError) {
	result, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.GetTargetEngagementMsg{Target: target})
	if appErr != nil {
		return nil, appErr
	}
	return result.(*actors.TargetEngagement), nil
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request, act uuid.UUID, question *models.Question) {
	if appErr := permissions.Check(act, true, permissions.ContentAuthor(question.AuthorID)); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if fields := models.ValidateQuestionFields(req.Summary, req.Content); fields != nil {
		s.respondError(w, utils.NewValidationError(fields))
		return
	}

	result, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.UpdateQuestionMsg{
		QuestionID: question.ID,
		Summary:    req.Summary,
		Content:    req.Content,
		Tags:       req.Tags,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// deleteQuestion cascades: the question's answers go first, then every
// comment and like targeting the question or those answers, then the
// question itself.
func (s *Server) deleteQuestion(w http.ResponseWriter, act uuid.UUID, question *models.Question) {
	if appErr := permissions.Check(act, true, permissions.ContentAuthor(question.AuthorID)); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	answersResult, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.DeleteAnswersForQuestionMsg{QuestionID: question.ID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	deletedAnswerIDs := answersResult.([]uuid.UUID)

	targets := make([]models.Target, 0, len(deletedAnswerIDs)+1)
	targets = append(targets, models.QuestionRef(question.ID))
	for _, answerID := range deletedAnswerIDs {
		targets = append(targets, models.AnswerRef(answerID))
	}
	if _, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.PurgeTargetsMsg{Targets: targets}); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	if _, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.DeleteQuestionMsg{QuestionID: question.ID}); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	log.Printf("HTTP Handler: Deleted question %s with %d answers", question.ID, len(deletedAnswerIDs))
	s.respondJSON(w, http.StatusNoContent, nil)
}

// handleEngagementAction serves comment_it, like_it and dislike_it for
// a resolved target. These require authentication only; dislike_it
// removes the caller's own like or reports not found.
func (s *Server) handleEngagementAction(w http.ResponseWriter, r *http.Request, act uuid.UUID, target models.Target, action string) {
	switch action {
	case "comment_it":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if fields := models.ValidateCommentContent(req.Content); fields != nil {
			s.respondError(w, utils.NewValidationError(fields))
			return
		}
		result, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.CreateCommentMsg{
			Content:  req.Content,
			AuthorID: act,
			Target:   target,
		})
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}
		s.respondJSON(w, http.StatusCreated, result)

	case "like_it":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.CreateLikeMsg{
			AuthorID: act,
			Target:   target,
		})
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}
		s.respondJSON(w, http.StatusCreated, result)

	case "dislike_it":
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if _, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.RemoveLikeMsg{
			AuthorID: act,
			Target:   target,
		}); appErr != nil {
			s.respondError(w, appErr)
			return
		}
		s.respondJSON(w, http.StatusNoContent, nil)

	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
