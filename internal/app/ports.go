package app

import (
	"context"

	"live-quiz-service/internal/domain"
)

// QuestionStore abstracts the question catalog (in-memory, Postgres, etc).
// Get reports an absent ID as domain.ErrQuestionNotFound, distinct from
// transport or query failures.
type QuestionStore interface {
	List(ctx context.Context) ([]domain.Question, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (domain.Question, error)
	Insert(ctx context.Context, q domain.Question) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ResultStore persists leaderboard rows keyed by participant name.
// Upsert is last-write-wins: a later write for the same name replaces
// branch, year, score and timestamp unconditionally.
type ResultStore interface {
	ClearAll(ctx context.Context) error
	Upsert(ctx context.Context, r domain.Result) error
	Top(ctx context.Context, n int) ([]domain.Result, error)
	Count(ctx context.Context) (int, error)
}

// Broadcaster fans outbound events to one connection or to all of them.
// Emission order per connection is preserved by the transport.
type Broadcaster interface {
	ToAll(event string, payload any)
	ToOne(connID, event string, payload any)
}
