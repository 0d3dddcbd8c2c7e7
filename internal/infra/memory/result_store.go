package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// ResultStore keeps leaderboard rows in memory, keyed by participant name.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]domain.Result)}
}

func (s *ResultStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]domain.Result)
	return nil
}

// Upsert replaces the row for r.Name unconditionally (last write wins).
func (s *ResultStore) Upsert(_ context.Context, r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.Name] = r
	return nil
}

func (s *ResultStore) Top(_ context.Context, n int) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Result, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	domain.RankResults(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *ResultStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results), nil
}
