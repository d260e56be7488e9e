// Package recipe provides recipe source implementations that sit beside
// the remote API: an in-memory source for offline use and a TTL cache.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds a fixed recipe list in memory. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes []domain.Recipe
	err     error
	log     *logger.Logger
}

// NewMemorySource creates a source serving recipes in the given order.
func NewMemorySource(log *logger.Logger, recipes ...domain.Recipe) *MemorySource {
	return &MemorySource{
		recipes: append([]domain.Recipe(nil), recipes...),
		log:     log,
	}
}

// LoadFile reads a recipes dump in the /recipes response shape
// ({"recipes": [...]}) or a bare JSON array.
func LoadFile(path string, log *logger.Logger) (*MemorySource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: read %s: %w", path, err)
	}

	var envelope struct {
		Recipes []domain.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Recipes != nil {
		log.Debug("recipe: loaded %d recipes from %s", len(envelope.Recipes), path)
		return NewMemorySource(log, envelope.Recipes...), nil
	}

	var list []domain.Recipe
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("recipe: decode %s: %w", path, err)
	}
	log.Debug("recipe: loaded %d recipes from %s", len(list), path)
	return NewMemorySource(log, list...), nil
}

// List returns a copy of the held recipes.
func (s *MemorySource) List(ctx context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	s.log.Debug("listing all recipes, count=%d", len(s.recipes))
	return append([]domain.Recipe(nil), s.recipes...), nil
}

// Replace swaps the held recipes, as a re-fetch would.
func (s *MemorySource) Replace(recipes ...domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]domain.Recipe(nil), recipes...)
}

// FailWith makes every List call return err until cleared with nil.
func (s *MemorySource) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
