package handlers

import (
	"encoding/json"
	"gator-overflow/internal/engine/actors"
	"gator-overflow/internal/models"
	"gator-overflow/internal/permissions"
	"gator-overflow/internal/utils"
	"net/http"

	"github.com/google/uuid"
)

// AnswerRequest represents a request to create or update an answer
type AnswerRequest struct {
	Content string `json:"content"`
}

// handleAnswerRoutes serves everything under
// /questions/{id}/answers[/{id}[/{action}]]. The parent question is
// already resolved; the actor is authenticated.
func (s *Server) handleAnswerRoutes(w http.ResponseWriter, r *http.Request, act uuid.UUID, question *models.Question, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			s.listAnswers(w, question)
		case http.MethodPost:
			s.createAnswer(w, r, act, question)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	answerID, err := uuid.Parse(rest[0])
	if err != nil {
		http.Error(w, "Invalid answer ID format", http.StatusBadRequest)
		return
	}

	answer, appErr := s.resolveAnswer(answerID, question.ID)
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	if len(rest) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.serveAnswerDetail(w, answer)
		case http.MethodPut:
			s.updateAnswer(w, r, act, question, answer)
		case http.MethodDelete:
			s.deleteAnswer(w, act, question, answer)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if len(rest) == 2 {
		switch rest[1] {
		case "mark_as_solution":
			s.markSolution(w, r, act, question, answer, true)
		case "remove_solution_mark":
			s.markSolution(w, r, act, question, answer, false)
		default:
			s.handleEngagementAction(w, r, act, models.AnswerRef(answer.ID), rest[1])
		}
		return
	}

	http.Error(w, "Not found", http.StatusNotFound)
}

func (s *Server) resolveAnswer(answerID, questionID uuid.UUID) (*models.Answer, *utils.AppError) {
	result, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.GetAnswerMsg{
		AnswerID:   answerID,
		QuestionID: questionID,
	})
	if appErr != nil {
		return nil, appErr
	}
	answer, ok := result.(*models.Answer)
	if !ok {
		return nil, utils.NewAppError(utils.ErrDatabase, "unexpected answer response", nil)
	}
	return answer, nil
}

func (s *Server) listAnswers(w http.ResponseWriter, question *models.Question) {
	result, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.ListAnswersMsg{QuestionID: question.ID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) createAnswer(w http.ResponseWriter, r *http.Request, act uuid.UUID, question *models.Question) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if fields := models.ValidateAnswerContent(req.Content); fields != nil {
		s.respondError(w, utils.NewValidationError(fields))
		return
	}

	result, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.CreateAnswerMsg{
		QuestionID:       question.ID,
		Content:          req.Content,
		AuthorID:         act,
		QuestionAuthorID: question.AuthorID,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) serveAnswerDetail(w http.ResponseWriter, answer *models.Answer) {
	engagement, appErr := s.targetEngagement(models.AnswerRef(answer.ID))
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	s.respondJSON(w, http.StatusOK, &AnswerDetail{
		Answer:        answer,
		CommentsCount: len(engagement.Comments),
		LikesCount:    len(engagement.Likes),
		Comments:      engagement.Comments,
		Likes:         engagement.Likes,
	})
}

func (s *Server) updateAnswer(w http.ResponseWriter, r *http.Request, act uuid.UUID, question *models.Question, answer *models.Answer) {
	if appErr := permissions.Check(act, true, permissions.AnswerModerator(answer.AuthorID, question.AuthorID)); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if fields := models.ValidateAnswerContent(req.Content); fields != nil {
		s.respondError(w, utils.NewValidationError(fields))
		return
	}

	result, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.UpdateAnswerMsg{
		AnswerID: answer.ID,
		Content:  req.Content,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// deleteAnswer removes the answer and every comment/like targeting it.
func (s *Server) deleteAnswer(w http.ResponseWriter, act uuid.UUID, question *models.Question, answer *models.Answer) {
	if appErr := permissions.Check(act, true, permissions.AnswerModerator(answer.AuthorID, question.AuthorID)); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	if _, appErr := s.ask(s.Engine.GetEngagementActor(), &actors.PurgeTargetsMsg{
		Targets: []models.Target{models.AnswerRef(answer.ID)},
	}); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	if _, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.DeleteAnswerMsg{AnswerID: answer.ID}); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

// markSolution toggles the solution flag. Only the question's author
// may do this, regardless of who wrote the answer.
func (s *Server) markSolution(w http.ResponseWriter, r *http.Request, act uuid.UUID, question *models.Question, answer *models.Answer, mark bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if appErr := permissions.Check(act, true, permissions.QuestionAuthorOnly(question.AuthorID)); appErr != nil {
		s.respondError(w, appErr)
		return
	}

	result, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.MarkSolutionMsg{
		AnswerID: answer.ID,
		Mark:     mark,
	})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}
