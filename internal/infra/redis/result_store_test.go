package redis

import (
	"context"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestResultStoreUpsertAndRanking(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	base := time.Unix(1_700_000_000, 0)
	seed := []domain.Result{
		{Name: "A", Branch: "Comp", Year: 2, Score: 5, Timestamp: base.Add(100 * time.Millisecond)},
		{Name: "B", Branch: "Mech", Year: 3, Score: 5, Timestamp: base.Add(50 * time.Millisecond)},
		{Name: "C", Branch: "Civil", Year: 1, Score: 7, Timestamp: base.Add(200 * time.Millisecond)},
	}
	for _, r := range seed {
		if err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert %s: %v", r.Name, err)
		}
	}
	if !mr.Exists("quiz:result:A") {
		t.Fatalf("expected result hash in redis")
	}

	top, err := store.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"C", "B", "A"}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("expected %s at rank %d, got %+v", name, i, top[i])
		}
	}
	if top[0].Branch != "Civil" || top[0].Year != 1 || top[0].Score != 7 {
		t.Fatalf("round-tripped fields wrong: %+v", top[0])
	}

	if n, err := store.Count(ctx); err != nil || n != 3 {
		t.Fatalf("count: %d %v", n, err)
	}
}

func TestResultStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_ = store.Upsert(ctx, domain.Result{Name: "Alice", Score: 50, Timestamp: time.Unix(100, 0)})
	if err := store.Upsert(ctx, domain.Result{Name: "Alice", Branch: "Mech", Score: 10, Timestamp: time.Unix(200, 0)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	top, err := store.Top(ctx, 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].Score != 10 || top[0].Branch != "Mech" {
		t.Fatalf("expected last write to win, got %+v", top)
	}
}

func TestResultStoreClearAll(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_ = store.Upsert(ctx, domain.Result{Name: "Alice", Score: 1, Timestamp: time.Now()})
	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("quiz:result:Alice") || mr.Exists("quiz:results") {
		t.Fatalf("expected redis keys removed")
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Fatalf("expected zero results, got %d", n)
	}
}

func newTestStore(t *testing.T) (*ResultStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewResultStore(client), mr
}
