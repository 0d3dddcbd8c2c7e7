package memory

import (
	"context"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestResultStoreRanking(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	base := time.Unix(1_700_000_000, 0)
	seed := []domain.Result{
		{Name: "A", Score: 5, Timestamp: base.Add(100 * time.Millisecond)},
		{Name: "B", Score: 5, Timestamp: base.Add(50 * time.Millisecond)},
		{Name: "C", Score: 7, Timestamp: base.Add(200 * time.Millisecond)},
	}
	for _, r := range seed {
		if err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"C", "B", "A"} // score desc, earlier timestamp wins ties
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("expected %v at %d, got %+v", name, i, top[i])
		}
	}

	top, err = store.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(top))
	}
}

func TestResultStoreUpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	first := domain.Result{Name: "Alice", Branch: "Comp", Year: 2, Score: 50, Timestamp: time.Unix(100, 0)}
	second := domain.Result{Name: "Alice", Branch: "Mech", Year: 3, Score: 10, Timestamp: time.Unix(200, 0)}
	_ = store.Upsert(ctx, first)
	_ = store.Upsert(ctx, second)

	top, err := store.Top(ctx, 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	// Lower score still replaces: last write wins, not best score.
	if top[0].Score != 10 || top[0].Branch != "Mech" || top[0].Year != 3 {
		t.Fatalf("expected last write to win, got %+v", top[0])
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("expected one row per name, got %d", n)
	}
}

func TestResultStoreClearAll(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	_ = store.Upsert(ctx, domain.Result{Name: "Alice", Score: 1})
	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}
