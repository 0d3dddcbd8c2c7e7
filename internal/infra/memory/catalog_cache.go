package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Catalog is the question-store surface the cache wraps; it matches the
// app-level QuestionStore port.
type Catalog interface {
	List(ctx context.Context) ([]domain.Question, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (domain.Question, error)
	Insert(ctx context.Context, q domain.Question) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// CatalogCache is a read-through cache over a question catalog, meant to sit
// in front of the Postgres store: sequencing hits Get once per delivered
// question per participant, which would otherwise be a query each time.
// Entries expire after a jittered TTL and writes invalidate everything.
type CatalogCache struct {
	store Catalog
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	questions map[int64]cachedQuestion
	ids       []int64
	idsExpiry time.Time
}

type cachedQuestion struct {
	question  domain.Question
	missing   bool
	expiresAt time.Time
}

func NewCatalogCache(store Catalog, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		store:     store,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: make(map[int64]cachedQuestion),
	}
}

func (c *CatalogCache) Get(ctx context.Context, id int64) (domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.questions[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		if entry.missing {
			return domain.Question{}, domain.ErrQuestionNotFound
		}
		return entry.question, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(fmt.Sprintf("q:%d", id), func() (interface{}, error) {
		q, err := c.store.Get(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrQuestionNotFound) {
			return domain.Question{}, err
		}
		c.mu.Lock()
		c.questions[id] = cachedQuestion{
			question:  q,
			missing:   errors.Is(err, domain.ErrQuestionNotFound),
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return q, err
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *CatalogCache) ListIDs(ctx context.Context) ([]int64, error) {
	now := c.clock()

	c.mu.RLock()
	if c.ids != nil && c.idsExpiry.After(now) {
		ids := c.ids
		c.mu.RUnlock()
		return ids, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("ids", func() (interface{}, error) {
		ids, err := c.store.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.ids = ids
		c.idsExpiry = c.clock().Add(c.ttlWithJitter())
		c.mu.Unlock()
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]int64), nil
}

// List is an admin-path read and always goes to the store.
func (c *CatalogCache) List(ctx context.Context) ([]domain.Question, error) {
	return c.store.List(ctx)
}

func (c *CatalogCache) Insert(ctx context.Context, q domain.Question) (int64, error) {
	id, err := c.store.Insert(ctx, q)
	if err == nil {
		c.invalidate()
	}
	return id, err
}

func (c *CatalogCache) Delete(ctx context.Context, id int64) error {
	err := c.store.Delete(ctx, id)
	if err == nil {
		c.invalidate()
	}
	return err
}

func (c *CatalogCache) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

func (c *CatalogCache) invalidate() {
	c.mu.Lock()
	c.questions = make(map[int64]cachedQuestion)
	c.ids = nil
	c.mu.Unlock()
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
