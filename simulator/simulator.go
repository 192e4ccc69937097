// Package simulator drives synthetic Q&A traffic against a running
// engine over its HTTP API, for load and soak testing.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SimConfig struct {
	NumAccounts    int
	SimulationTime time.Duration
	QuestionRate   float64 // questions per account per hour
	AnswerRate     float64
	CommentRate    float64
	LikeRate       float64
	DisconnectRate float64
	ReconnectRate  float64
	EngineURL      string
}

type SimulationStats struct {
	mu              sync.RWMutex
	StartTime       time.Time
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	AverageLatency  time.Duration
	ActiveAccounts  int
	TotalQuestions  int
	TotalAnswers    int
	TotalComments   int
	TotalLikes      int
	LikeConflicts   int
}

// SimulatedAccount is one synthetic participant. The token comes from
// a real login so content routes exercise the JWT middleware.
type SimulatedAccount struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Token        string
	IsConnected  bool
	Questions    []uuid.UUID
	LikedTargets map[uuid.UUID]bool
}

type Simulator struct {
	config   SimConfig
	stats    *SimulationStats
	accounts []*SimulatedAccount
	// questions is the shared pool of known question ids that answer,
	// comment, and like workers draw from.
	questions []uuid.UUID
	client    *http.Client
	mu        sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime: time.Now(),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConnectivity(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Registering %d accounts...", s.config.NumAccounts)
	if err := s.createInitialAccounts(ctx); err != nil {
		return fmt.Errorf("failed to create accounts: %v", err)
	}

	log.Printf("Phase 2: Seeding initial questions...")
	if err := s.seedQuestions(ctx); err != nil {
		return fmt.Errorf("failed to seed questions: %v", err)
	}

	log.Printf("Initialization completed: %d accounts, %d questions",
		len(s.accounts), len(s.questions))
	return nil
}

func (s *Simulator) createInitialAccounts(ctx context.Context) error {
	s.accounts = make([]*SimulatedAccount, 0, s.config.NumAccounts)

	const numWorkers = 5
	jobs := make(chan int, numWorkers)
	results := make(chan *SimulatedAccount, numWorkers)

	rateLimiter := time.NewTicker(100 * time.Millisecond)
	defer rateLimiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for accountNum := range jobs {
				<-rateLimiter.C

				account := &SimulatedAccount{
					Username:     fmt.Sprintf("sim_%d", accountNum),
					Email:        fmt.Sprintf("sim_%d@test.com", accountNum),
					IsConnected:  true,
					Questions:    make([]uuid.UUID, 0),
					LikedTargets: make(map[uuid.UUID]bool),
				}

				if err := s.registerAndLogin(ctx, account); err != nil {
					log.Printf("Worker %d: failed to set up account %s: %v",
						workerID, account.Username, err)
					continue
				}
				results <- account
			}
		}(i)
	}

	go func() {
		for i := 0; i < s.config.NumAccounts; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for account := range results {
		s.mu.Lock()
		s.accounts = append(s.accounts, account)
		s.mu.Unlock()
	}

	if len(s.accounts) == 0 {
		return fmt.Errorf("no accounts could be registered")
	}
	log.Printf("Successfully created %d accounts", len(s.accounts))
	return nil
}

func (s *Simulator) registerAndLogin(ctx context.Context, account *SimulatedAccount) error {
	resp, err := s.makeRequest("POST", "/account/register", "", map[string]interface{}{
		"username": account.Username,
		"email":    account.Email,
		"password": "testpass123",
	})
	if err != nil {
		return fmt.Errorf("register: %v", err)
	}

	var registered struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &registered); err != nil {
		return fmt.Errorf("parse register response: %v", err)
	}
	accountID, err := uuid.Parse(registered.ID)
	if err != nil {
		return fmt.Errorf("invalid account id: %v", err)
	}
	account.ID = accountID

	resp, err = s.makeRequest("POST", "/account/login", "", map[string]interface{}{
		"email":    account.Email,
		"password": "testpass123",
	})
	if err != nil {
		return fmt.Errorf("login: %v", err)
	}

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(resp, &login); err != nil {
		return fmt.Errorf("parse login response: %v", err)
	}
	if !login.Success || login.Token == "" {
		return fmt.Errorf("login rejected for %s", account.Email)
	}
	account.Token = login.Token
	return nil
}

// seedQuestions gives every activity loop something to engage with so
// the answer and like workers never starve at startup.
func (s *Simulator) seedQuestions(ctx context.Context) error {
	numSeed := len(s.accounts) / 2
	if numSeed == 0 {
		numSeed = 1
	}

	for i := 0; i < numSeed; i++ {
		account := s.accounts[i%len(s.accounts)]
		questionID, err := s.askQuestion(account)
		if err != nil {
			log.Printf("Failed to seed question: %v", err)
			continue
		}
		s.mu.Lock()
		s.questions = append(s.questions, questionID)
		s.mu.Unlock()
		time.Sleep(50 * time.Millisecond)
	}

	if len(s.questions) == 0 {
		return fmt.Errorf("no questions could be seeded")
	}
	return nil
}

// makeRequest performs one API call, recording latency and outcome. A
// non-empty token is sent as a bearer credential.
func (s *Simulator) makeRequest(method, endpoint, token string, data interface{}) ([]byte, error) {
	var body []byte
	var err error

	if data != nil {
		body, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, s.config.EngineURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.recordRequestMetrics(start, err)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode >= 400 {
		return payload, &requestError{Status: resp.StatusCode, Body: string(payload)}
	}
	return payload, nil
}

type requestError struct {
	Status int
	Body   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// simulateConnectivity churns accounts between connected and
// disconnected so the load is not perfectly uniform. Disconnected
// accounts simply sit out the activity loops.
func (s *Simulator) simulateConnectivity(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			for _, account := range s.accounts {
				if account.IsConnected {
					if rand.Float64() < s.config.DisconnectRate {
						account.IsConnected = false
					}
				} else if rand.Float64() < s.config.ReconnectRate {
					account.IsConnected = true
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Simulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			activeAccounts := 0
			for _, account := range s.accounts {
				if account.IsConnected {
					activeAccounts++
				}
			}
			totalAccounts := len(s.accounts)
			s.mu.RUnlock()

			s.stats.mu.Lock()
			s.stats.ActiveAccounts = activeAccounts
			elapsed := time.Since(s.stats.StartTime)
			requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()
			successRate := 0.0
			if s.stats.TotalRequests > 0 {
				successRate = float64(s.stats.SuccessRequests) / float64(s.stats.TotalRequests) * 100
			}

			log.Printf("\nSimulation Metrics (%.1f seconds elapsed):", elapsed.Seconds())
			log.Printf("- Request Rate: %.2f req/sec", requestRate)
			log.Printf("- Success Rate: %.1f%%", successRate)
			log.Printf("- Average Latency: %v", s.stats.AverageLatency)
			log.Printf("- Active Accounts: %d/%d", activeAccounts, totalAccounts)
			log.Printf("- Questions: %d, Answers: %d", s.stats.TotalQuestions, s.stats.TotalAnswers)
			log.Printf("- Comments: %d, Likes: %d (conflicts: %d)",
				s.stats.TotalComments, s.stats.TotalLikes, s.stats.LikeConflicts)
			log.Printf("- Failed Requests: %d", s.stats.FailedRequests)
			s.stats.mu.Unlock()
		}
	}
}

// SimulationMetrics holds the final numbers reported after a run.
type SimulationMetrics struct {
	TotalAccounts     int
	ActiveAccounts    int
	TotalQuestions    int
	TotalAnswers      int
	TotalComments     int
	TotalLikes        int
	LikeConflicts     int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

func (s *Simulator) GetMetrics() SimulationMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()

	return SimulationMetrics{
		TotalAccounts:     len(s.accounts),
		ActiveAccounts:    s.stats.ActiveAccounts,
		TotalQuestions:    s.stats.TotalQuestions,
		TotalAnswers:      s.stats.TotalAnswers,
		TotalComments:     s.stats.TotalComments,
		TotalLikes:        s.stats.TotalLikes,
		LikeConflicts:     s.stats.LikeConflicts,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: requestRate,
	}
}
