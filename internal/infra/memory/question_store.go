package memory

import (
	"context"
	"sort"
	"sync"

	"live-quiz-service/internal/domain"
)

// QuestionStore is an in-memory question catalog, the default when no
// Postgres is configured and the backing store for tests.
type QuestionStore struct {
	mu        sync.RWMutex
	nextID    int64
	questions map[int64]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{
		nextID:    1,
		questions: make(map[int64]domain.Question),
	}
}

// NewSeededQuestionStore builds a store preloaded with questions; IDs are
// assigned in slice order.
func NewSeededQuestionStore(questions []domain.Question) *QuestionStore {
	s := NewQuestionStore()
	for _, q := range questions {
		_, _ = s.Insert(context.Background(), q)
	}
	return s
}

func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *QuestionStore) ListIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.questions))
	for id := range s.questions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *QuestionStore) Get(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) Insert(_ context.Context, q domain.Question) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID
	s.nextID++
	s.questions[q.ID] = q
	return q.ID, nil
}

func (s *QuestionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	return nil
}

func (s *QuestionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}
