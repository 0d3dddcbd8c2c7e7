package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	resultKeyPrefix = "quiz:result:"
	resultNamesKey  = "quiz:results"
)

// ResultStore persists leaderboard rows in Redis. Each result lives in a
// hash under quiz:result:{name} and the name is tracked in the quiz:results
// set; ranking happens in process since the tie-break (timestamp ascending)
// does not fit a single sorted-set score.
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) ClearAll(ctx context.Context) error {
	names, err := s.client.SMembers(ctx, resultNamesKey).Result()
	if err != nil {
		return fmt.Errorf("list result names: %w", err)
	}
	pipe := s.client.Pipeline()
	for _, name := range names {
		pipe.Del(ctx, resultKeyPrefix+name)
	}
	pipe.Del(ctx, resultNamesKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}

func (s *ResultStore) Upsert(ctx context.Context, r domain.Result) error {
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, resultKeyPrefix+r.Name,
		"name", r.Name,
		"branch", r.Branch,
		"year", r.Year,
		"score", r.Score,
		"ts", r.Timestamp.UnixMilli(),
	)
	pipe.SAdd(ctx, resultNamesKey, r.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert result %q: %w", r.Name, err)
	}
	return nil
}

func (s *ResultStore) Top(ctx context.Context, n int) ([]domain.Result, error) {
	names, err := s.client.SMembers(ctx, resultNamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list result names: %w", err)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HGetAll(ctx, resultKeyPrefix+name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	results := make([]domain.Result, 0, len(names))
	for _, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		results = append(results, resultFromFields(fields))
	}
	domain.RankResults(results)
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

func (s *ResultStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, resultNamesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return int(n), nil
}

func resultFromFields(fields map[string]string) domain.Result {
	r := domain.Result{
		Name:   fields["name"],
		Branch: fields["branch"],
	}
	r.Year, _ = strconv.Atoi(fields["year"])
	r.Score, _ = strconv.Atoi(fields["score"])
	if ms, err := strconv.ParseInt(fields["ts"], 10, 64); err == nil {
		r.Timestamp = time.UnixMilli(ms)
	}
	return r
}
