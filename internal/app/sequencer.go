package app

import (
	"context"
	"errors"
	"time"

	"live-quiz-service/internal/domain"
)

// delivery describes the next question to hand a participant along with the
// window the client should count down against.
type delivery struct {
	question  domain.Question
	startAt   time.Time
	expiresAt time.Time
}

// advance moves the participant's cursor forward to the next question that
// still exists in the catalog. IDs deleted mid-round are skipped silently,
// each consuming one cursor slot. It returns finished=true once the cursor
// reaches the end of the order; re-advancing a finished participant keeps
// yielding finished. Catalog failures other than "not found" abort the
// advance with the cursor already moved past the slot that failed.
func advance(ctx context.Context, p *participant, catalog QuestionStore, now time.Time) (delivery, bool, error) {
	for {
		if p.cursor >= len(p.order) {
			return delivery{}, true, nil
		}
		p.cursor++
		if p.cursor >= len(p.order) {
			return delivery{}, true, nil
		}
		q, err := catalog.Get(ctx, p.order[p.cursor])
		if errors.Is(err, domain.ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return delivery{}, false, err
		}
		return delivery{
			question:  q,
			startAt:   now,
			expiresAt: now.Add(time.Duration(q.TimeLimitSeconds) * time.Second),
		}, false, nil
	}
}
