package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/p-n-ai/pai-insight/internal/analytics"
	"github.com/p-n-ai/pai-insight/internal/attempt"
	"github.com/p-n-ai/pai-insight/internal/content"
	"github.com/p-n-ai/pai-insight/internal/learning"
	"github.com/p-n-ai/pai-insight/internal/report"
)

// quizCatalog is the read side of the content store the API exposes.
type quizCatalog interface {
	Quiz(id string) (content.Quiz, bool)
	Quizzes(subject string) []content.Quiz
}

type server struct {
	svc     *learning.Service
	quizzes quizCatalog
	checks  map[string]func(context.Context) error
}

// newMux creates the HTTP router with health checks and the learning API.
func newMux(svc *learning.Service, quizzes quizCatalog, events http.Handler, checks map[string]func(context.Context) error) *http.ServeMux {
	s := &server{svc: svc, quizzes: quizzes, checks: checks}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("POST /api/attempts", s.handleSubmitAttempt)
	mux.HandleFunc("GET /api/attempts", s.handleListAttempts)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/recommendations/export", s.handleExport)
	mux.HandleFunc("GET /api/quizzes", s.handleQuizzes)
	if events != nil {
		mux.Handle("GET /ws/events", events)
	}
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"check":  name,
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

type attemptSummary struct {
	ID             string    `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	WeakAreas      []string  `json:"weakAreas"`
	CompletedAt    time.Time `json:"completedAt"`
}

type attemptAnalysis struct {
	Metrics         analytics.PerformanceMetrics `json:"metrics"`
	Recommendations []string                     `json:"recommendations"`
	NextDifficulty  analytics.Difficulty         `json:"nextDifficulty"`
	Topics          []analytics.TopicStat        `json:"topics"`
}

type submitResponse struct {
	Message  string          `json:"message"`
	Attempt  attemptSummary  `json:"attempt"`
	Analysis attemptAnalysis `json:"analysis"`
}

func (s *server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var sub learning.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.svc.SubmitAttempt(r.Context(), sub)
	switch {
	case errors.Is(err, learning.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, "User ID, quiz ID and answers are required")
		return
	case errors.Is(err, learning.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	case err != nil:
		slog.Error("quiz attempt failed", "quiz_id", sub.QuizID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Message: "Quiz attempt submitted successfully",
		Attempt: attemptSummary{
			ID:             res.Attempt.ID,
			Score:          res.Attempt.Score,
			TotalQuestions: res.Attempt.TotalQuestions,
			WeakAreas:      res.Attempt.WeakAreas,
			CompletedAt:    res.Attempt.CompletedAt,
		},
		Analysis: attemptAnalysis{
			Metrics:         res.Analysis.Metrics,
			Recommendations: res.Analysis.Recommendations,
			NextDifficulty:  res.Analysis.NextDifficulty,
			Topics:          res.Analysis.Topics,
		},
	})
}

func (s *server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	attempts, err := s.svc.Attempts(r.Context(), attempt.Filter{
		UserID: q.Get("userId"),
		QuizID: q.Get("quizId"),
	})
	if err != nil {
		slog.Error("listing attempts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

// recommend parses the shared recommendation query and runs it. It writes
// the error response itself and returns nil in that case.
func (s *server) recommend(w http.ResponseWriter, r *http.Request) *learning.Recommendation {
	q := r.URL.Query()
	raw := q.Get("weakAreas")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Weak areas parameter is required")
		return nil
	}

	var limit *int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a non-negative integer")
			return nil
		}
		limit = &n
	}

	rec, err := s.svc.Recommend(r.Context(), learning.Query{
		UserID:    q.Get("userId"),
		WeakAreas: learning.ParseWeakAreas(raw),
		Subject:   q.Get("subject"),
		Limit:     limit,
	})
	if err != nil {
		slog.Error("recommendations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil
	}
	return rec
}

func (s *server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if rec := s.recommend(w, r); rec != nil {
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	rec := s.recommend(w, r)
	if rec == nil {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteRecommendation(&buf, rec); err != nil {
		slog.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="study-plan.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *server) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if id := q.Get("id"); id != "" {
		quiz, ok := s.quizzes.Quiz(id)
		if !ok {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		writeJSON(w, http.StatusOK, quiz)
		return
	}
	writeJSON(w, http.StatusOK, s.quizzes.Quizzes(q.Get("subject")))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
