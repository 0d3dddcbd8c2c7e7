package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"live-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore is the Postgres question catalog. Choices are stored as a
// JSONB array alongside the scalar columns.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, prompt, choices, answer_index, time_limit, points, negative_points
		FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *QuestionStore) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list question ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *QuestionStore) Get(ctx context.Context, id int64) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, prompt, choices, answer_index, time_limit, points, negative_points
		FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionStore) Insert(ctx context.Context, q domain.Question) (int64, error) {
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return 0, fmt.Errorf("marshal choices: %w", err)
	}
	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO questions (prompt, choices, answer_index, time_limit, points, negative_points)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		q.Prompt, choices, q.AnswerIndex, q.TimeLimitSeconds, q.Points, q.NegativePoints,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (s *QuestionStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	var choices []byte
	if err := row.Scan(&q.ID, &q.Prompt, &choices, &q.AnswerIndex, &q.TimeLimitSeconds, &q.Points, &q.NegativePoints); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, err
		}
		return domain.Question{}, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal(choices, &q.Choices); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal choices: %w", err)
	}
	return q, nil
}
