package attempt

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pai-insight/internal/analytics"
)

const dbTimeout = 5 * time.Second

//go:embed schema.sql
var schemaSQL string

// Migrate creates the attempt and event tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed attempt store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, a Attempt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if a.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if a.QuizID == "" {
		return "", fmt.Errorf("quiz_id is required")
	}

	answers := a.Answers
	if answers == nil {
		answers = map[string]int{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}

	weak := a.WeakAreas
	if weak == nil {
		weak = []string{}
	}

	completedAt := a.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts
		   (user_id, quiz_id, answers, score, total_questions, weak_areas, difficulty, next_difficulty, completed_at)
		 VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8, $9)
		 RETURNING id::text`,
		a.UserID,
		a.QuizID,
		string(answersJSON),
		a.Score,
		a.TotalQuestions,
		weak,
		string(a.Difficulty),
		string(a.NextDifficulty),
		completedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create attempt: %w", err)
	}
	return id, nil
}

const selectAttempt = `SELECT id::text, user_id, quiz_id, answers, score, total_questions,
	weak_areas, difficulty, next_difficulty, completed_at
	FROM quiz_attempts`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	a, err := scanAttempt(s.pool.QueryRow(ctx, selectAttempt+` WHERE id::text = $1 LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		selectAttempt+`
		 WHERE ($1 = '' OR user_id = $1)
		   AND ($2 = '' OR quiz_id = $2)
		 ORDER BY completed_at DESC`,
		f.UserID,
		f.QuizID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func scanAttempt(row pgx.Row) (*Attempt, error) {
	var a Attempt
	var answers []byte
	var difficulty, next string
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.QuizID,
		&answers,
		&a.Score,
		&a.TotalQuestions,
		&a.WeakAreas,
		&difficulty,
		&next,
		&a.CompletedAt,
	); err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	a.Difficulty = analytics.Difficulty(difficulty)
	a.NextDifficulty = analytics.Difficulty(next)
	return &a, nil
}
