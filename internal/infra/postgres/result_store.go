package postgres

import (
	"context"
	"fmt"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultStore persists leaderboard rows in Postgres, name as primary key.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) ClearAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}

func (s *ResultStore) Upsert(ctx context.Context, r domain.Result) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO results (name, branch, year, score, ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET branch=EXCLUDED.branch, year=EXCLUDED.year, score=EXCLUDED.score, ts=EXCLUDED.ts`,
		r.Name, r.Branch, r.Year, r.Score, r.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert result %q: %w", r.Name, err)
	}
	return nil
}

func (s *ResultStore) Top(ctx context.Context, n int) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, branch, year, score, ts
		FROM results ORDER BY score DESC, ts ASC, name ASC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		var r domain.Result
		var ms int64
		if err := rows.Scan(&r.Name, &r.Branch, &r.Year, &r.Score, &ms); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Timestamp = time.UnixMilli(ms)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ResultStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
