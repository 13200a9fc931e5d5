// Package attempt persists graded quiz attempts and the analytics events
// emitted while scoring them.
package attempt

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/p-n-ai/pai-insight/internal/analytics"
)

// ErrNotFound is returned when an attempt does not exist.
var ErrNotFound = errors.New("attempt not found")

// Attempt is a stored quiz attempt with its derived weak areas.
type Attempt struct {
	ID             string               `json:"id"`
	UserID         string               `json:"userId"`
	QuizID         string               `json:"quizId"`
	Answers        map[string]int       `json:"answers"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"totalQuestions"`
	WeakAreas      []string             `json:"weakAreas"`
	Difficulty     analytics.Difficulty `json:"difficulty"`
	NextDifficulty analytics.Difficulty `json:"nextDifficulty"`
	CompletedAt    time.Time            `json:"completedAt"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	UserID string
	QuizID string
}

func (f Filter) matches(a *Attempt) bool {
	return (f.UserID == "" || a.UserID == f.UserID) &&
		(f.QuizID == "" || a.QuizID == f.QuizID)
}

// Store persists attempts.
type Store interface {
	Create(ctx context.Context, a Attempt) (string, error)
	Get(ctx context.Context, id string) (*Attempt, error)
	// List returns matching attempts, most recent first.
	List(ctx context.Context, f Filter) ([]Attempt, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	attempts map[string]*Attempt
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory attempt store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]*Attempt),
	}
}

func (s *MemoryStore) Create(_ context.Context, a Attempt) (string, error) {
	if a.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if a.QuizID == "" {
		return "", fmt.Errorf("quiz_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = generateID()
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	stored := a.clone()
	s.attempts[a.ID] = &stored
	return a.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := a.clone()
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Attempt{}
	for _, a := range s.attempts {
		if f.matches(a) {
			out = append(out, a.clone())
		}
	}
	slices.SortFunc(out, func(a, b Attempt) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	return out, nil
}

// clone copies a so callers never share its answers or weak areas with
// the store.
func (a *Attempt) clone() Attempt {
	cp := *a
	cp.Answers = maps.Clone(a.Answers)
	cp.WeakAreas = append([]string{}, a.WeakAreas...)
	return cp
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
