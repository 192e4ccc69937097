package handlers

import (
	"gator-overflow/internal/middleware"
	"gator-overflow/internal/websocket"
	"log"
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

// originChecker admits the configured origins. Non-browser clients
// send no Origin header and pass; an empty list means any origin, the
// same default the CORS layer applies.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, candidate := range allowed {
			if candidate == "*" || candidate == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the connection into an account's
// notification feed. Authentication uses a token query parameter since
// browsers cannot set headers on websocket dials.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	upgrader := ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(s.AllowedOrigins),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			log.Println("WebSocket connection failed: Missing token")
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ValidateToken(tokenString)
		if err != nil {
			log.Printf("WebSocket connection failed: Invalid token: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		accountID := claims.AccountID
		if accountID == uuid.Nil {
			log.Println("WebSocket connection failed: Nil account ID in token claims")
			http.Error(w, "Invalid account ID in token", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for Account %s: %v", accountID, err)
			return
		}
		log.Printf("WebSocket connection upgraded for Account %s", accountID)

		client := &websocket.Client{
			Hub:       s.Hub,
			AccountID: accountID,
			Conn:      conn,
			Send:      make(chan []byte, 256),
		}
		client.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
