package handlers

import (
	"encoding/json"
	"gator-overflow/internal/engine/actors"
	"gator-overflow/internal/middleware"
	"gator-overflow/internal/models"
	"gator-overflow/internal/permissions"
	"gator-overflow/internal/types"
	"gator-overflow/internal/utils"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// RegisterAccountRequest represents a request to register a new account
type RegisterAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest carries the token from the emailed verification link
type VerifyRequest struct {
	Token string `json:"token"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	PhotoURL    string `json:"photoUrl"`
}

// ProfileResponse is an account plus its derived content metrics.
type ProfileResponse struct {
	Account         *models.Account `json:"account"`
	QuestionsCount  int             `json:"questionsCount"`
	AnswersCount    int             `json:"answersCount"`
	SolutionsCount  int             `json:"solutionsCount"`
	SolutionPercent int             `json:"solutionPercent"`
}

// HandleAccountRegister handles requests to register a new account
func (s *Server) HandleAccountRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if fields := models.ValidateRegistration(req.Username, req.Email, req.Password); fields != nil {
			s.respondError(w, utils.NewValidationError(fields))
			return
		}

		result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.RegisterAccountMsg{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusCreated, result)
	}
}

// HandleAccountLogin handles requests to log in
func (s *Server) HandleAccountLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		log.Printf("HTTP Handler: Received login request for email: %s", req.Email)

		result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}

		loginResp, ok := result.(*types.LoginResponse)
		if !ok {
			log.Printf("HTTP Handler: Invalid login response type: %T", result)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !loginResp.Success {
			s.respondJSON(w, http.StatusUnauthorized, loginResp)
			return
		}

		accountID, err := uuid.Parse(loginResp.AccountID)
		if err != nil {
			log.Printf("HTTP Handler: Invalid account ID format: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		token, err := middleware.GenerateToken(accountID)
		if err != nil {
			log.Printf("HTTP Handler: Failed to generate token: %v", err)
			http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
			return
		}
		loginResp.Token = token

		s.respondJSON(w, http.StatusOK, loginResp)
	}
}

// HandleAccountVerify consumes an emailed verification token
func (s *Server) HandleAccountVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.VerifyAccountMsg{Token: req.Token})
		if appErr != nil {
			s.respondError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleAccountProfile serves and updates account profiles. GET inlines
// the account's content metrics; PUT is restricted to the account
// itself.
func (s *Server) HandleAccountProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := actorID(r)

		// Default to the caller's own profile
		targetID := actor
		if idStr := r.URL.Query().Get("accountId"); idStr != "" {
			parsed, err := uuid.Parse(idStr)
			if err != nil {
				http.Error(w, "Invalid account ID format", http.StatusBadRequest)
				return
			}
			targetID = parsed
		}

		switch r.Method {
		case http.MethodGet:
			if appErr := permissions.Check(actor, false, nil); appErr != nil {
				s.respondError(w, appErr)
				return
			}
			s.serveProfile(w, targetID)

		case http.MethodPut:
			if appErr := permissions.Check(actor, true, permissions.AccountSelf(targetID)); appErr != nil {
				s.respondError(w, appErr)
				return
			}

			var req UpdateProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if fields := models.ValidateProfileUpdate(req.Tagline, req.Description, req.PhotoURL); fields != nil {
				s.respondError(w, utils.NewValidationError(fields))
				return
			}

			result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.UpdateProfileMsg{
				AccountID:   targetID,
				Tagline:     req.Tagline,
				Description: req.Description,
				PhotoURL:    req.PhotoURL,
			})
			if appErr != nil {
				s.respondError(w, appErr)
				return
			}
			s.respondJSON(w, http.StatusOK, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) serveProfile(w http.ResponseWriter, accountID uuid.UUID) {
	result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.GetAccountProfileMsg{AccountID: accountID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	account, ok := result.(*models.Account)
	if !ok {
		http.Error(w, "Invalid response type", http.StatusInternalServerError)
		return
	}

	questionsResult, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.CountQuestionsByAuthorMsg{AuthorID: accountID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	answersResult, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.CountAnswersByAuthorMsg{AuthorID: accountID})
	if appErr != nil {
		s.respondError(w, appErr)
		return
	}
	answerCounts := answersResult.(*actors.AuthorAnswerCounts)

	s.respondJSON(w, http.StatusOK, &ProfileResponse{
		Account:         account,
		QuestionsCount:  questionsResult.(int),
		AnswersCount:    answerCounts.Answers,
		SolutionsCount:  answerCounts.Solutions,
		SolutionPercent: models.SolutionPercent(answerCounts.Solutions, answerCounts.Answers),
	})
}
