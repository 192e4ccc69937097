package handlers

import (
	"encoding/json"
	"gator-overflow/internal/database"
	"gator-overflow/internal/engine"
	"gator-overflow/internal/middleware"
	"gator-overflow/internal/utils"
	"gator-overflow/internal/websocket"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	DB             database.DBAdapter
	Hub            *websocket.Hub
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components.
// allowedOrigins gates websocket upgrades; empty means any origin, the
// same default the CORS layer applies.
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	db database.DBAdapter,
	hub *websocket.Hub,
	allowedOrigins []string,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Metrics:        metrics,
		DB:             db,
		Hub:            hub,
		AllowedOrigins: allowedOrigins,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and unwraps the response. Actor-level
// failures come back as *utils.AppError values, transport failures as a
// timeout error.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, *utils.AppError) {
	s.Metrics.IncrementRequests()
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps an AppError to its HTTP status and renders it as
// JSON, carrying per-field messages for validation failures.
func (s *Server) respondError(w http.ResponseWriter, appErr *utils.AppError) {
	s.Metrics.IncrementErrors()
	body := map[string]interface{}{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	s.respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), body)
}

// actorID extracts the authenticated account from the request context.
// Anonymous requests yield uuid.Nil, which the permission layer
// rejects.
func actorID(r *http.Request) uuid.UUID {
	if accountID, ok := middleware.GetAccountIDFromContext(r.Context()); ok {
		return accountID
	}
	return uuid.Nil
}
