package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var questionTags = []string{
	"go", "concurrency", "http", "databases", "testing",
	"actors", "websockets", "deployment", "performance", "errors",
}

// SimulateActivities runs the question, answer, comment, and like
// loops concurrently until the context expires.
func (s *Simulator) SimulateActivities(ctx context.Context) error {
	log.Printf("Starting activities simulation...")

	var wg sync.WaitGroup

	loops := []struct {
		name string
		run  func(context.Context)
	}{
		{"questions", s.simulateQuestions},
		{"answers", s.simulateAnswers},
		{"comments", s.simulateComments},
		{"likes", s.simulateLikes},
	}

	for _, loop := range loops {
		wg.Add(1)
		go func(name string, run func(context.Context)) {
			defer wg.Done()
			log.Printf("Starting %s loop...", name)
			run(ctx)
		}(loop.name, loop.run)
	}

	wg.Wait()
	return nil
}

// forEachActiveAccount ticks twice a second and offers every connected
// account to the worker pool; a full channel drops the tick rather
// than blocking.
func (s *Simulator) forEachActiveAccount(ctx context.Context, work func(*SimulatedAccount)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	const numWorkers = 5
	jobs := make(chan *SimulatedAccount, len(s.accounts))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for account := range jobs {
				work(account)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, account := range s.accounts {
				if account.IsConnected {
					select {
					case jobs <- account:
					default:
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// shouldAct converts an events-per-hour rate into a per-tick roll.
func shouldAct(hourlyRate float64) bool {
	return rand.Float64() < hourlyRate/3600.0/2.0
}

func (s *Simulator) simulateQuestions(ctx context.Context) {
	s.forEachActiveAccount(ctx, func(account *SimulatedAccount) {
		if !shouldAct(s.config.QuestionRate) {
			return
		}

		questionID, err := s.askQuestion(account)
		if err != nil {
			log.Printf("Failed to ask question as %s: %v", account.Username, err)
			return
		}

		s.mu.Lock()
		s.questions = append(s.questions, questionID)
		account.Questions = append(account.Questions, questionID)
		s.mu.Unlock()

		s.stats.mu.Lock()
		s.stats.TotalQuestions++
		s.stats.mu.Unlock()
	})
}

func (s *Simulator) askQuestion(account *SimulatedAccount) (uuid.UUID, error) {
	numTags := rand.Intn(3) + 1
	tags := make([]string, 0, numTags)
	for _, i := range rand.Perm(len(questionTags))[:numTags] {
		tags = append(tags, questionTags[i])
	}

	resp, err := s.makeRequest("POST", "/questions", account.Token, map[string]interface{}{
		"summary": fmt.Sprintf("Question from %s at %d", account.Username, time.Now().UnixNano()),
		"content": fmt.Sprintf("Detailed description written by %s about %v.", account.Username, tags),
		"tags":    tags,
	})
	if err != nil {
		return uuid.Nil, err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return uuid.Nil, fmt.Errorf("parse question response: %v", err)
	}
	return uuid.Parse(created.ID)
}

func (s *Simulator) simulateAnswers(ctx context.Context) {
	s.forEachActiveAccount(ctx, func(account *SimulatedAccount) {
		if !shouldAct(s.config.AnswerRate) {
			return
		}

		questionID, ok := s.randomQuestion()
		if !ok {
			return
		}

		endpoint := fmt.Sprintf("/questions/%s/answers", questionID)
		_, err := s.makeRequest("POST", endpoint, account.Token, map[string]interface{}{
			"content": fmt.Sprintf("Answer from %s at %s", account.Username, time.Now().Format(time.RFC3339)),
		})
		if err != nil {
			log.Printf("Failed to answer question %s: %v", questionID, err)
			return
		}

		s.stats.mu.Lock()
		s.stats.TotalAnswers++
		s.stats.mu.Unlock()
	})
}

func (s *Simulator) simulateComments(ctx context.Context) {
	s.forEachActiveAccount(ctx, func(account *SimulatedAccount) {
		if !shouldAct(s.config.CommentRate) {
			return
		}

		questionID, ok := s.randomQuestion()
		if !ok {
			return
		}

		endpoint := fmt.Sprintf("/questions/%s/comment_it", questionID)
		_, err := s.makeRequest("POST", endpoint, account.Token, map[string]interface{}{
			"content": fmt.Sprintf("Comment from %s", account.Username),
		})
		if err != nil {
			log.Printf("Failed to comment on question %s: %v", questionID, err)
			return
		}

		s.stats.mu.Lock()
		s.stats.TotalComments++
		s.stats.mu.Unlock()
	})
}

// simulateLikes deliberately does not deduplicate perfectly: a small
// share of repeats goes through to exercise the conflict path.
func (s *Simulator) simulateLikes(ctx context.Context) {
	s.forEachActiveAccount(ctx, func(account *SimulatedAccount) {
		if !shouldAct(s.config.LikeRate) {
			return
		}

		questionID, ok := s.randomQuestion()
		if !ok {
			return
		}

		s.mu.RLock()
		alreadyLiked := account.LikedTargets[questionID]
		s.mu.RUnlock()
		if alreadyLiked && rand.Float64() < 0.9 {
			return
		}

		endpoint := fmt.Sprintf("/questions/%s/like_it", questionID)
		_, err := s.makeRequest("POST", endpoint, account.Token, nil)
		if err != nil {
			if reqErr, ok := err.(*requestError); ok && reqErr.Status == 409 {
				s.stats.mu.Lock()
				s.stats.LikeConflicts++
				s.stats.mu.Unlock()
			} else {
				log.Printf("Failed to like question %s: %v", questionID, err)
			}
			return
		}

		s.mu.Lock()
		account.LikedTargets[questionID] = true
		s.mu.Unlock()

		s.stats.mu.Lock()
		s.stats.TotalLikes++
		s.stats.mu.Unlock()
	})
}

func (s *Simulator) randomQuestion() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.questions) == 0 {
		return uuid.Nil, false
	}
	return s.questions[rand.Intn(len(s.questions))], true
}
