package main

import (
	"context"
	"fmt"
	"gator-overflow/internal/config"
	"gator-overflow/internal/database"
	"gator-overflow/internal/engine"
	"gator-overflow/internal/handlers"
	"gator-overflow/internal/middleware"
	"gator-overflow/internal/utils"
	"gator-overflow/internal/websocket"
	"log"
	"net/http"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	metrics := utils.NewMetricsCollector()

	// Postgres is optional; without a URI the actors run memory-only.
	var db database.DBAdapter
	if cfg.Database.URI != "" {
		pg, err := database.NewPostgresDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		if err := pg.InitializeTables(context.Background()); err != nil {
			log.Fatalf("Failed to initialize tables: %v", err)
		}
		defer pg.Close(context.Background())
		db = pg
	} else {
		log.Printf("No DATABASE_URL configured, running without persistence")
	}

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	gatorEngine := engine.NewEngine(system, metrics, db, hub)

	server := handlers.NewServer(system, system.Root, gatorEngine, metrics, db, hub, cfg.AllowedOrigins)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	route := func(path string, handler http.HandlerFunc) {
		http.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(handler, path), corsConfig))
	}

	route("/health", server.HandleHealth())
	route("/account/register", server.HandleAccountRegister())
	route("/account/login", server.HandleAccountLogin())
	route("/account/verify", server.HandleAccountVerify())
	route("/account/profile", server.HandleAccountProfile())
	route("/questions", server.HandleQuestions())
	http.HandleFunc("/questions/", middleware.ApplyCORS(questionSubroutes(server), corsConfig))
	http.HandleFunc("/ws", server.HandleWebSocket())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// questionSubroutes authenticates every nested question path. The path
// varies per request, so the static-path middleware wrapper does not
// apply here.
func questionSubroutes(server *handlers.Server) http.HandlerFunc {
	inner := server.HandleQuestionRoutes()
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ApplyJWTMiddleware(inner, r.URL.Path)(w, r)
	}
}
