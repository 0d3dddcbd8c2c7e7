package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestCatalogCacheServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{Catalog: NewSeededQuestionStore([]domain.Question{
		{Prompt: "one", Choices: []string{"a", "b"}},
	})}
	cache := NewCatalogCache(inner, time.Minute)

	if _, err := cache.Get(ctx, 1); err != nil {
		t.Fatalf("get: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one store read, got %d", inner.gets)
	}
	if _, err := cache.Get(ctx, 1); err != nil {
		t.Fatalf("get 2: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected cache hit, store reads %d", inner.gets)
	}

	if _, err := cache.ListIDs(ctx); err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if _, err := cache.ListIDs(ctx); err != nil {
		t.Fatalf("list ids 2: %v", err)
	}
	if inner.lists != 1 {
		t.Fatalf("expected one id listing, got %d", inner.lists)
	}
}

func TestCatalogCacheCachesMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{Catalog: NewQuestionStore()}
	cache := NewCatalogCache(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Get(ctx, 42); !errors.Is(err, domain.ErrQuestionNotFound) {
			t.Fatalf("get %d: expected not-found, got %v", i, err)
		}
	}
	if inner.gets != 1 {
		t.Fatalf("expected the miss to be cached, store reads %d", inner.gets)
	}
}

func TestCatalogCacheWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{Catalog: NewQuestionStore()}
	cache := NewCatalogCache(inner, time.Minute)

	if _, err := cache.ListIDs(ctx); err != nil {
		t.Fatalf("list ids: %v", err)
	}

	id, err := cache.Insert(ctx, domain.Question{Prompt: "new", Choices: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	ids, err := cache.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list ids after insert: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("expected insert to invalidate id cache, got %v", ids)
	}

	if _, err := cache.Get(ctx, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := cache.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cache.Get(ctx, id); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected delete to invalidate question cache, got %v", err)
	}
}

type countingCatalog struct {
	Catalog
	gets  int
	lists int
}

func (c *countingCatalog) Get(ctx context.Context, id int64) (domain.Question, error) {
	c.gets++
	return c.Catalog.Get(ctx, id)
}

func (c *countingCatalog) ListIDs(ctx context.Context) ([]int64, error) {
	c.lists++
	return c.Catalog.ListIDs(ctx)
}
