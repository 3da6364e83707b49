// Package services serves interview practice questions. Recently served
// question ids are kept per user in a TTL'd, size-capped cache entry so
// consecutive sessions do not repeat themselves and the history cannot
// grow without bound.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/models"
)

const (
	historyTTL = 24 * time.Hour
	historyCap = 50
)

// Cache stores the per-user question history.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type InterviewService struct {
	cache     Cache
	questions []models.Question
	log       *slog.Logger
}

// NewInterviewService serves questions from the given bank. An empty bank
// falls back to the built-in one.
func NewInterviewService(cache Cache, questions []models.Question, log *slog.Logger) *InterviewService {
	if len(questions) == 0 {
		questions = DefaultQuestionBank()
	}
	return &InterviewService{cache: cache, questions: questions, log: log}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("interview:history:%d", userID)
}

// Next returns up to n questions the user has not seen recently and
// records them in the history. When the unseen pool runs dry the history
// is dropped and the whole bank becomes eligible again.
func (s *InterviewService) Next(ctx context.Context, userID int64, n int) ([]models.Question, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > len(s.questions) {
		n = len(s.questions)
	}

	var history []int64
	found, err := s.cache.Get(ctx, historyKey(userID), &history)
	if err != nil {
		s.log.Warn("question history read failed", sl.Err(err))
	}
	if !found {
		history = nil
	}

	seen := make(map[int64]struct{}, len(history))
	for _, id := range history {
		seen[id] = struct{}{}
	}

	pool := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if _, ok := seen[q.ID]; !ok {
			pool = append(pool, q)
		}
	}
	if len(pool) < n {
		// History exhausted the bank: start over.
		pool = append([]models.Question(nil), s.questions...)
		history = nil
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:n]

	for _, q := range picked {
		history = append(history, q.ID)
	}
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	if err := s.cache.Set(ctx, historyKey(userID), history, historyTTL); err != nil {
		s.log.Warn("question history write failed", sl.Err(err))
	}

	return picked, nil
}

// Categories lists the distinct question categories in bank order.
func (s *InterviewService) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, q := range s.questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}
	return categories
}
