// Package catalog implements the recipe catalog state machine: the full
// collection fetched once per load, the filtered subsequence derived from
// the search term and cuisine selection, and the displayed count that
// pages through it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

// Defaults for the catalog screen.
const (
	DefaultPageSize       = 9
	DefaultSearchDebounce = 300 * time.Millisecond
)

// ErrSuperseded is returned by Load when a newer Load started before this
// one finished. Its result is discarded.
var ErrSuperseded = errors.New("catalog: load superseded")

// Option configures the controller.
type Option func(*Controller)

// WithPageSize sets how many cards a page (and each "show more") adds.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithSearchDebounce sets the quiet interval for SetSearch.
func WithSearchDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounceDelay = d }
}

// Controller holds catalog state. All methods are safe for concurrent use;
// debounced search recomputes run on a timer goroutine and are delivered
// through the OnRender hook.
type Controller struct {
	src           domain.RecipeSource
	log           *logger.Logger
	pageSize      int
	debounceDelay time.Duration
	debounce      *timer.Debouncer

	mu        sync.Mutex
	all       []domain.Recipe
	filtered  []*domain.Recipe // points into all
	displayed int
	search    string // applied term
	typed     string // latest term from SetSearch, applied after the debounce
	armed     bool   // typed is waiting on the debounce
	cuisine   string
	cuisines  []string
	modal     *domain.Recipe
	loadErr   error
	loadSeq   uint64
	onRender  func(View)
}

// New creates a controller over src. Nothing is fetched until Load.
func New(src domain.RecipeSource, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		src:           src,
		log:           log,
		pageSize:      DefaultPageSize,
		debounceDelay: DefaultSearchDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.displayed = c.pageSize
	c.debounce = timer.NewDebouncer(c.debounceDelay, c.applyTypedSearch)
	return c
}

// OnRender registers fn to receive the view after every debounced search
// recompute. fn runs on the timer goroutine.
func (c *Controller) OnRender(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRender = fn
}

// Load fetches the full collection and resets every derived value, as a
// fresh page load does: no search, no cuisine, first page, no modal, and
// cuisine options rebuilt from scratch. On failure the list is replaced by
// the error. If ctx is cancelled or a newer Load has started by the time
// the fetch returns, the result is dropped and state is left untouched.
func (c *Controller) Load(ctx context.Context) (View, error) {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	c.log.Debug("catalog: loading recipes (load #%d)", seq)
	recipes, err := c.src.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.log.Debug("catalog: load #%d abandoned: %v", seq, ctxErr)
		return c.renderLocked(), ctxErr
	}
	if seq != c.loadSeq {
		c.log.Debug("catalog: load #%d superseded by #%d", seq, c.loadSeq)
		return c.renderLocked(), ErrSuperseded
	}

	c.debounce.Cancel()
	c.armed = false
	c.search, c.typed, c.cuisine = "", "", ""
	c.modal = nil
	c.displayed = c.pageSize

	if err != nil {
		c.log.Error("catalog: loading recipes: %v", err)
		c.all, c.filtered, c.cuisines = nil, nil, nil
		c.loadErr = err
		return c.renderLocked(), fmt.Errorf("loading recipes: %w", err)
	}

	c.loadErr = nil
	c.all = recipes
	c.cuisines = Cuisines(c.all)
	c.filtered = Apply(c.all, Filter{})
	c.log.Info("catalog: loaded %d recipes, %d cuisines", len(c.all), len(c.cuisines))
	return c.renderLocked(), nil
}

// SetSearch records the typed term and (re)starts the debounce. Only the
// call followed by a full quiet interval recomputes the filtered list.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	c.typed = term
	c.armed = true
	if c.debounceDelay > 0 {
		// Armed and scheduled in one step, so ShowMore never sees an armed
		// term without its timer. A zero delay applies synchronously.
		c.debounce.Trigger()
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.debounce.Trigger()
}

// SearchPending reports whether a typed term is waiting for its debounce.
func (c *Controller) SearchPending() bool {
	return c.debounce.Pending()
}

// FlushSearch applies a pending typed term immediately.
func (c *Controller) FlushSearch() {
	c.debounce.Flush()
}

// SetCuisine changes the cuisine selection and recomputes immediately,
// together with whatever is currently typed in the search box. "" means
// all cuisines.
func (c *Controller) SetCuisine(cuisine string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.debounce.Cancel()
	c.armed = false
	c.cuisine = cuisine
	c.search = c.typed
	c.applyLocked()
	return c.renderLocked()
}

// ApplyFilters sets both filters at once and recomputes without a debounce.
func (c *Controller) ApplyFilters(search, cuisine string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.debounce.Cancel()
	c.armed = false
	c.search, c.typed = search, search
	c.cuisine = cuisine
	c.applyLocked()
	return c.renderLocked()
}

// ShowMore reveals another page of the current filtered list. A search
// whose debounce already elapsed is applied first, so the extra page is
// not reset by it.
func (c *Controller) ShowMore() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.armed && !c.debounce.Pending() {
		c.armed = false
		c.search = c.typed
		c.applyLocked()
	}
	c.displayed += c.pageSize
	c.log.Debug("catalog: show more, displayed=%d of %d", c.displayed, len(c.filtered))
	return c.renderLocked()
}

// Open shows the recipe with the given id in the modal. The lookup is in
// the full collection, not just the visible cards.
func (c *Controller) Open(id int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.all {
		if c.all[i].ID == id {
			c.modal = &c.all[i]
			c.log.Debug("catalog: opened recipe %d (%s)", id, c.modal.Name)
			return c.renderLocked(), nil
		}
	}
	return c.renderLocked(), fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
}

// CloseModal hides the modal. Nothing else changes.
func (c *Controller) CloseModal() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = nil
	return c.renderLocked()
}

// View renders the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderLocked()
}

// Close stops the debouncer. Pending searches are dropped.
func (c *Controller) Close() {
	c.debounce.Stop()
}

// ── Accessors ────────────────────────────────────────────────────

// All returns a copy of the full collection in fetch order.
func (c *Controller) All() []domain.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Recipe(nil), c.all...)
}

// Filtered returns a copy of the filtered collection in order.
func (c *Controller) Filtered() []domain.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Recipe, len(c.filtered))
	for i, r := range c.filtered {
		out[i] = *r
	}
	return out
}

// DisplayedCount returns the number of items the list may show. It can
// exceed the filtered length; rendering clamps it.
func (c *Controller) DisplayedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int { return c.pageSize }

// Search returns the applied search term.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Cuisine returns the selected cuisine, "" for all.
func (c *Controller) Cuisine() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cuisine
}

// Cuisines returns the cuisine options of the last successful load.
func (c *Controller) Cuisines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cuisines...)
}

// Err returns the error of the last load, if it failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// ── internals ────────────────────────────────────────────────────

func (c *Controller) applyTypedSearch() {
	c.mu.Lock()
	if !c.armed {
		// Absorbed by SetCuisine, ApplyFilters, ShowMore or Load after
		// the timer fired.
		c.mu.Unlock()
		return
	}
	c.armed = false
	c.search = c.typed
	c.applyLocked()
	v := c.renderLocked()
	hook := c.onRender
	c.mu.Unlock()

	if hook != nil {
		hook(v)
	}
}

// applyLocked recomputes filtered from all and resets the page.
func (c *Controller) applyLocked() {
	c.filtered = Apply(c.all, Filter{Search: c.search, Cuisine: c.cuisine})
	c.displayed = c.pageSize
	c.log.Debug("catalog: filter search=%q cuisine=%q -> %d of %d", c.search, c.cuisine, len(c.filtered), len(c.all))
}

func (c *Controller) renderLocked() View {
	return Render(State{
		Filtered:  c.filtered,
		Displayed: c.displayed,
		Search:    c.search,
		Cuisine:   c.cuisine,
		Cuisines:  c.cuisines,
		Modal:     c.modal,
		Err:       c.loadErr,
	})
}
