package recipe

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*CachedSource)(nil)

const listKey = "recipes:all"

// CachedSource remembers the last successful List result for ttl so that
// going back to the catalog (log out, log in again) does not hit the
// network. Failures are never cached.
type CachedSource struct {
	src domain.RecipeSource
	lru *expirable.LRU[string, []domain.Recipe]
	log *logger.Logger
}

// NewCachedSource wraps src. A non-positive ttl disables caching.
func NewCachedSource(src domain.RecipeSource, ttl time.Duration, log *logger.Logger) *CachedSource {
	c := &CachedSource{src: src, log: log}
	if ttl > 0 {
		c.lru = expirable.NewLRU[string, []domain.Recipe](1, nil, ttl)
	}
	return c
}

// List returns the cached collection or fetches it.
func (c *CachedSource) List(ctx context.Context) ([]domain.Recipe, error) {
	if c.lru != nil {
		if recipes, ok := c.lru.Get(listKey); ok {
			c.log.Debug("recipe cache hit (%d recipes)", len(recipes))
			return append([]domain.Recipe(nil), recipes...), nil
		}
	}

	recipes, err := c.src.List(ctx)
	if err != nil {
		return nil, err
	}
	if c.lru != nil {
		c.lru.Add(listKey, append([]domain.Recipe(nil), recipes...))
		c.log.Debug("recipe cache store (%d recipes)", len(recipes))
	}
	return recipes, nil
}

// Invalidate drops the cached collection so the next List re-fetches.
func (c *CachedSource) Invalidate() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
