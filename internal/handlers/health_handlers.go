package handlers

import (
	"encoding/json"
	"gator-overflow/internal/engine/actors"
	"net/http"
	"time"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		accountResult, appErr := s.ask(s.Engine.GetAccountActor(), &actors.GetCountsMsg{})
		if appErr != nil {
			http.Error(w, "Failed to get account count", http.StatusInternalServerError)
			return
		}
		questionResult, appErr := s.ask(s.Engine.GetQuestionActor(), &actors.GetCountsMsg{})
		if appErr != nil {
			http.Error(w, "Failed to get question count", http.StatusInternalServerError)
			return
		}
		answerResult, appErr := s.ask(s.Engine.GetAnswerActor(), &actors.GetCountsMsg{})
		if appErr != nil {
			http.Error(w, "Failed to get answer count", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":             "healthy",
			"account_count":      accountResult.(int),
			"question_count":     questionResult.(int),
			"answer_count":       answerResult.(int),
			"uptime":             s.Metrics.Uptime().String(),
			"operation_averages": s.Metrics.OperationAverages(),
			"server_time":        time.Now(),
		})
	}
}
