// Package learning composes quiz grading, attempt analytics and material
// recommendation into the operations the HTTP layer exposes.
package learning

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/p-n-ai/pai-insight/internal/analytics"
	"github.com/p-n-ai/pai-insight/internal/attempt"
	"github.com/p-n-ai/pai-insight/internal/content"
	"github.com/p-n-ai/pai-insight/internal/recommender"
)

var (
	// ErrQuizNotFound is returned when a submission names an unknown quiz.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidSubmission is returned when a submission or query is malformed.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// DefaultExplainTimeout is how long Recommend waits for an explanation
// unless WithExplainTimeout says otherwise.
const DefaultExplainTimeout = 10 * time.Second

// QuizSource looks up quizzes by ID.
type QuizSource interface {
	Quiz(id string) (content.Quiz, bool)
}

// Corpus lists the knowledge documents for a subject. An empty subject
// lists everything.
type Corpus interface {
	Documents(subject string) []recommender.KnowledgeDocument
}

// Cache stores JSON-encoded values with a TTL.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Explainer turns a search query into a short explanation.
type Explainer interface {
	Explain(ctx context.Context, query string) (string, error)
}

// Service runs the scoring and recommendation pipelines.
type Service struct {
	quizzes      QuizSource
	corpus       Corpus
	store        attempt.Store
	events       attempt.EventLogger
	cache        Cache
	cacheTTL     time.Duration
	explainer    Explainer
	explainWait  time.Duration
	defaultLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithEventLogger sets where analytics events are sent.
func WithEventLogger(l attempt.EventLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.events = l
		}
	}
}

// WithCache enables recommendation caching.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithExplainer enables AI explanations on recommendations.
func WithExplainer(e Explainer) Option {
	return func(s *Service) {
		s.explainer = e
	}
}

// WithExplainTimeout bounds how long Recommend waits for an explanation.
// Non-positive values keep the default.
func WithExplainTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.explainWait = d
		}
	}
}

// WithDefaultLimit sets the limit used when a query does not name one.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// NewService creates a learning service.
func NewService(quizzes QuizSource, corpus Corpus, store attempt.Store, opts ...Option) *Service {
	s := &Service{
		quizzes:      quizzes,
		corpus:       corpus,
		store:        store,
		events:       attempt.NopEventLogger{},
		explainWait:  DefaultExplainTimeout,
		defaultLimit: recommender.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submission is a learner's answers to a quiz, keyed by question ID.
type Submission struct {
	UserID  string         `json:"userId"`
	QuizID  string         `json:"quizId"`
	Answers map[string]int `json:"answers"`
}

// AttemptResult is the stored attempt together with its analysis.
type AttemptResult struct {
	Attempt  attempt.Attempt    `json:"attempt"`
	Analysis analytics.Analysis `json:"analysis"`
}

// SubmitAttempt grades a submission, stores the attempt and returns its analysis.
func (s *Service) SubmitAttempt(ctx context.Context, sub Submission) (*AttemptResult, error) {
	if sub.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidSubmission)
	}
	if sub.QuizID == "" || sub.Answers == nil {
		return nil, fmt.Errorf("%w: quiz id and answers are required", ErrInvalidSubmission)
	}

	quiz, ok := s.quizzes.Quiz(sub.QuizID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, sub.QuizID)
	}

	graded, score := grade(quiz, sub.Answers)
	total := len(quiz.Questions)

	analysis, err := analytics.Analyze(graded, score, total, quiz.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("analyzing attempt: %w", err)
	}

	a := attempt.Attempt{
		UserID:         sub.UserID,
		QuizID:         quiz.ID,
		Answers:        sub.Answers,
		Score:          score,
		TotalQuestions: total,
		WeakAreas:      analysis.WeakAreas,
		Difficulty:     quiz.Difficulty,
		NextDifficulty: analysis.NextDifficulty,
		CompletedAt:    time.Now().UTC(),
	}
	id, err := s.store.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("saving attempt: %w", err)
	}
	a.ID = id

	s.logEvent(ctx, attempt.Event{
		AttemptID: id,
		UserID:    sub.UserID,
		EventType: attempt.EventAttemptScored,
		Data: map[string]any{
			"quiz_id":         quiz.ID,
			"score":           score,
			"total_questions": total,
			"percentage":      analysis.Metrics.Percentage,
			"weak_areas":      analysis.WeakAreas,
			"next_difficulty": string(analysis.NextDifficulty),
		},
	})

	slog.Info("attempt scored",
		"attempt_id", id,
		"user_id", sub.UserID,
		"quiz_id", quiz.ID,
		"score", score,
		"total", total,
		"weak_areas", len(analysis.WeakAreas),
	)

	return &AttemptResult{Attempt: a, Analysis: analysis}, nil
}

// grade marks each question in quiz order. A missing answer is incorrect.
func grade(quiz content.Quiz, answers map[string]int) ([]analytics.GradedAnswer, int) {
	graded := make([]analytics.GradedAnswer, 0, len(quiz.Questions))
	score := 0
	for _, q := range quiz.Questions {
		given, ok := answers[q.ID]
		correct := ok && given == q.CorrectAnswer
		if correct {
			score++
		}
		graded = append(graded, analytics.GradedAnswer{
			QuestionID: q.ID,
			Topic:      q.Topic,
			IsCorrect:  correct,
		})
	}
	return graded, score
}

// Attempts lists stored attempts, most recent first.
func (s *Service) Attempts(ctx context.Context, f attempt.Filter) ([]attempt.Attempt, error) {
	attempts, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	return attempts, nil
}

// Query asks for materials covering a set of weak areas. A nil Limit uses
// the service default; a zero Limit asks for no materials.
type Query struct {
	UserID    string
	WeakAreas []string
	Subject   string
	Limit     *int
}

// Recommendation is the full recommendation response.
type Recommendation struct {
	WeakAreas           []string                        `json:"weakAreas"`
	Summary             string                          `json:"summary"`
	Materials           []recommender.FormattedMaterial `json:"materials"`
	StudyPlan           []recommender.StudyPlanEntry    `json:"studyPlan"`
	SearchQuery         string                          `json:"searchQuery"`
	Explanation         string                          `json:"explanation,omitempty"`
	TotalMaterialsFound int                             `json:"totalMaterialsFound"`
}

// ParseWeakAreas splits a comma-separated list, trimming each entry and
// dropping blanks.
func ParseWeakAreas(raw string) []string {
	var areas []string
	for _, part := range strings.Split(raw, ",") {
		if area := strings.TrimSpace(part); area != "" {
			areas = append(areas, area)
		}
	}
	return areas
}

// Recommend retrieves, formats and plans study materials for the weak areas
// in q.
func (s *Service) Recommend(ctx context.Context, q Query) (*Recommendation, error) {
	weak := make([]string, 0, len(q.WeakAreas))
	for _, area := range q.WeakAreas {
		if area = strings.TrimSpace(area); area != "" {
			weak = append(weak, area)
		}
	}
	limit := s.defaultLimit
	if q.Limit != nil {
		if *q.Limit < 0 {
			return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidSubmission)
		}
		limit = *q.Limit
	}

	key := cacheKey(q.Subject, limit, weak)
	if rec, ok := s.cached(ctx, key); ok {
		s.logServed(ctx, q, rec, true)
		return rec, nil
	}

	materials, err := recommender.Retrieve(s.corpus.Documents(q.Subject), weak, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieving materials: %w", err)
	}

	formatted := recommender.Format(materials, weak)
	rec := &Recommendation{
		WeakAreas:           weak,
		Summary:             formatted.Summary,
		Materials:           formatted.Materials,
		StudyPlan:           recommender.BuildStudyPlan(weak, materials),
		SearchQuery:         recommender.SearchQuery(weak),
		TotalMaterialsFound: len(materials),
	}

	if s.explainer != nil && rec.SearchQuery != "" {
		rec.Explanation = s.explain(ctx, rec.SearchQuery)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, rec, s.cacheTTL); err != nil {
			slog.Warn("failed to cache recommendations", "key", key, "error", err)
		}
	}

	s.logServed(ctx, q, rec, false)
	return rec, nil
}

// explain asks the explainer for a summary, giving up after explainWait.
// Failures leave the explanation empty.
func (s *Service) explain(ctx context.Context, query string) string {
	ctx, cancel := context.WithTimeout(ctx, s.explainWait)
	defer cancel()

	explanation, err := s.explainer.Explain(ctx, query)
	if err != nil {
		slog.Warn("explanation unavailable", "timeout", s.explainWait, "error", err)
		return ""
	}
	return explanation
}

func (s *Service) logServed(ctx context.Context, q Query, rec *Recommendation, cached bool) {
	s.logEvent(ctx, attempt.Event{
		UserID:    q.UserID,
		EventType: attempt.EventRecommendationsServed,
		Data: map[string]any{
			"weak_areas": rec.WeakAreas,
			"subject":    q.Subject,
			"materials":  rec.TotalMaterialsFound,
			"cached":     cached,
		},
	})
}

func (s *Service) cached(ctx context.Context, key string) (*Recommendation, bool) {
	if s.cache == nil {
		return nil, false
	}
	var rec Recommendation
	found, err := s.cache.GetJSON(ctx, key, &rec)
	if err != nil {
		slog.Warn("recommendation cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	slog.Debug("recommendation cache hit", "key", key)
	return &rec, true
}

func (s *Service) logEvent(ctx context.Context, event attempt.Event) {
	if err := s.events.LogEvent(ctx, event); err != nil {
		slog.Warn("failed to log event", "type", event.EventType, "error", err)
	}
}

// cacheKey hashes the inputs that determine a recommendation. Entries are
// separated by NUL so "a,b" and "a","b" never collide.
func cacheKey(subject string, limit int, weakAreas []string) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s\x00%d", subject, limit)
	for _, area := range weakAreas {
		h.Write([]byte{0})
		h.Write([]byte(area))
	}
	return "recs:" + hex.EncodeToString(h.Sum(nil))
}
