package main

import (
	"context"
	"log"
	"time"

	"gator-overflow/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumAccounts:    20,
		SimulationTime: 10 * time.Minute,
		QuestionRate:   60.0,
		AnswerRate:     120.0,
		CommentRate:    90.0,
		LikeRate:       200.0,
		DisconnectRate: 0.01,
		ReconnectRate:  0.05,
		EngineURL:      "http://localhost:8080",
	}

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Number of accounts: %d", config.NumAccounts)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Question rate: %.1f questions/account/hour", config.QuestionRate)
	log.Printf("- Answer rate: %.1f answers/account/hour", config.AnswerRate)
	log.Printf("- Comment rate: %.1f comments/account/hour", config.CommentRate)
	log.Printf("- Like rate: %.1f likes/account/hour", config.LikeRate)

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total accounts: %d", metrics.TotalAccounts)
	log.Printf("- Active accounts at end: %d", metrics.ActiveAccounts)
	log.Printf("- Questions: %d, Answers: %d", metrics.TotalQuestions, metrics.TotalAnswers)
	log.Printf("- Comments: %d, Likes: %d (conflicts: %d)",
		metrics.TotalComments, metrics.TotalLikes, metrics.LikeConflicts)
	log.Printf("- Average latency: %v", metrics.AverageLatency)
	log.Printf("- Error count: %d", metrics.ErrorCount)
}
