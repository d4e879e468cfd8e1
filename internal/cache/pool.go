package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/remaimber-it/examprep/internal/domain/questionbank"
	"github.com/remaimber-it/examprep/internal/store"
)

const (
	keyPrefix     = "examprep:pool:"
	generationKey = keyPrefix + "gen"
)

// PoolCache caches FindQuestions results. Every SaveQuestion bumps a
// generation counter that is part of each key, so writes invalidate all
// cached pools at once. Counters on cached questions may lag by up to ttl.
type PoolCache struct {
	next    store.QuestionStore
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

var _ store.QuestionStore = (*PoolCache)(nil)

func NewPoolCache(next store.QuestionStore, backend Backend, ttl time.Duration, logger *slog.Logger) *PoolCache {
	return &PoolCache{next: next, backend: backend, ttl: ttl, logger: logger}
}

// FindQuestions never fails because of the cache: backend errors are logged
// and the underlying repository is used.
func (c *PoolCache) FindQuestions(ctx context.Context, subjectIDs []string, examType string) ([]questionbank.Question, error) {
	key, err := c.poolKey(ctx, subjectIDs, examType)
	if err != nil {
		c.logger.Warn("pool cache unavailable", "error", err)
		return c.next.FindQuestions(ctx, subjectIDs, examType)
	}

	if b, err := c.backend.Get(ctx, key); err == nil {
		var pool []questionbank.Question
		if err := json.Unmarshal(b, &pool); err == nil {
			return pool, nil
		}
		c.logger.Warn("discarding corrupt pool cache entry", "key", key)
	} else if !errors.Is(err, ErrMiss) {
		c.logger.Warn("pool cache read failed", "key", key, "error", err)
	}

	pool, err := c.next.FindQuestions(ctx, subjectIDs, examType)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(pool); err == nil {
		if err := c.backend.Set(ctx, key, b, c.ttl); err != nil {
			c.logger.Warn("pool cache write failed", "key", key, "error", err)
		}
	}
	return pool, nil
}

func (c *PoolCache) GetQuestion(ctx context.Context, id string) (*questionbank.Question, error) {
	return c.next.GetQuestion(ctx, id)
}

func (c *PoolCache) SaveQuestion(ctx context.Context, q *questionbank.Question) error {
	if err := c.next.SaveQuestion(ctx, q); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate drops every cached pool.
func (c *PoolCache) Invalidate(ctx context.Context) {
	if _, err := c.backend.Incr(ctx, generationKey); err != nil {
		c.logger.Warn("pool cache invalidation failed", "error", err)
	}
}

func (c *PoolCache) poolKey(ctx context.Context, subjectIDs []string, examType string) (string, error) {
	gen := "0"
	b, err := c.backend.Get(ctx, generationKey)
	switch {
	case err == nil:
		gen = string(b)
	case !errors.Is(err, ErrMiss):
		return "", err
	}

	ids := append([]string(nil), subjectIDs...)
	sort.Strings(ids)
	return keyPrefix + gen + ":" + strconv.Quote(examType) + ":" + strings.Join(ids, ","), nil
}
