package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

const testDebounce = 40 * time.Millisecond

// fiftyRecipes has exactly three recipes mentioning "saffron": one by
// name, one by ingredient, one by tag.
func fiftyRecipes() []domain.Recipe {
	out := make([]domain.Recipe, 50)
	cuisines := []string{"Italian", "Asian", "Mexican", "American", "Italian"}
	for i := range out {
		out[i] = domain.Recipe{
			ID:          i + 1,
			Name:        fmt.Sprintf("Recipe %02d", i+1),
			Cuisine:     cuisines[i%len(cuisines)],
			Ingredients: []string{"Salt", "Water"},
			Tags:        []string{"Dinner"},
		}
	}
	out[4].Name = "Saffron Risotto"
	out[20].Ingredients = append(out[20].Ingredients, "A pinch of saffron")
	out[37].Tags = append(out[37].Tags, "Saffron")
	return out
}

type renderSink struct {
	ch chan View
}

func newRenderSink() *renderSink { return &renderSink{ch: make(chan View, 16)} }

func (s *renderSink) hook(v View) { s.ch <- v }

func (s *renderSink) next(t *testing.T) View {
	t.Helper()
	select {
	case v := <-s.ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no render after the debounce")
		return View{}
	}
}

func setup(t *testing.T, recipes []domain.Recipe) (*Controller, *recipe.MemorySource, *renderSink) {
	t.Helper()
	src := recipe.NewMemorySource(logger.Nop(), recipes...)
	c := New(src, logger.Nop(), WithSearchDebounce(testDebounce))
	sink := newRenderSink()
	c.OnRender(sink.hook)
	t.Cleanup(c.Close)
	return c, src, sink
}

func TestLoadFirstPage(t *testing.T) {
	c, _, _ := setup(t, fiftyRecipes())

	v, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, v.Cards, 9)
	assert.Equal(t, "Showing 9 of 50 recipes.", v.Status)
	assert.True(t, v.ShowMore)
	assert.Equal(t, 1, v.Cards[0].ID)
	assert.Equal(t, 9, v.Cards[8].ID)
	assert.Equal(t, []string{"American", "Asian", "Italian", "Mexican"}, v.Cuisines)
	assert.Equal(t, 9, c.DisplayedCount())
	assert.Len(t, c.Filtered(), 50)
}

func TestShowMore(t *testing.T) {
	c, _, _ := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	for n := 1; n <= 6; n++ {
		v := c.ShowMore()
		assert.Equal(t, c.PageSize()*(n+1), c.DisplayedCount())
		shown := min(c.PageSize()*(n+1), 50)
		assert.Len(t, v.Cards, shown)
		assert.Equal(t, fmt.Sprintf("Showing %d of 50 recipes.", shown), v.Status)
		assert.Equal(t, c.DisplayedCount() < 50, v.ShowMore)
	}
	assert.Len(t, c.Filtered(), 50, "show more never recomputes the filtered list")
}

func TestSearchIsDebounced(t *testing.T) {
	c, _, sink := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	c.ShowMore()

	// Fast typing: only the last term is applied.
	for _, term := range []string{"s", "sa", "saf", "saff", "saffron"} {
		c.SetSearch(term)
		time.Sleep(testDebounce / 4)
	}
	assert.True(t, c.SearchPending())
	assert.Len(t, c.Filtered(), 50, "nothing recomputed during the burst")

	v := sink.next(t)
	assert.Equal(t, "saffron", v.Search)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, []int{5, 21, 38}, []int{v.Cards[0].ID, v.Cards[1].ID, v.Cards[2].ID})
	assert.Equal(t, "Showing 3 of 3 recipes.", v.Status)
	assert.False(t, v.ShowMore)
	assert.Equal(t, c.PageSize(), c.DisplayedCount(), "filter change resets the page")

	select {
	case extra := <-sink.ch:
		t.Fatalf("unexpected second render for %q", extra.Search)
	case <-time.After(2 * testDebounce):
	}
}

func TestCuisineChangeIsImmediate(t *testing.T) {
	c, _, _ := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	c.ShowMore()
	c.ShowMore()

	v := c.SetCuisine("Italian")
	assert.Equal(t, 9, c.DisplayedCount())
	assert.Equal(t, "Showing 9 of 20 recipes.", v.Status)
	for _, r := range c.Filtered() {
		assert.Equal(t, "Italian", r.Cuisine)
	}

	v = c.SetCuisine("")
	assert.Equal(t, "Showing 9 of 50 recipes.", v.Status)
}

func TestCuisineChangeUsesTypedTerm(t *testing.T) {
	c, _, sink := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	c.SetSearch("saffron")
	v := c.SetCuisine("Italian")
	assert.False(t, c.SearchPending(), "cuisine change absorbs the pending search")
	assert.Equal(t, "saffron", v.Search)
	// Recipes 5 and 21 are Italian, 38 is Mexican.
	assert.Equal(t, "Showing 2 of 2 recipes.", v.Status)

	select {
	case <-sink.ch:
		t.Fatal("cancelled search still rendered")
	case <-time.After(2 * testDebounce):
	}
}

func TestApplyFiltersAndFlush(t *testing.T) {
	c, _, sink := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	v := c.ApplyFilters("SAFFRON", "")
	assert.Equal(t, 3, v.Total)

	c.SetSearch("risotto")
	c.FlushSearch()
	v = sink.next(t)
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, "risotto", c.Search())
}

// A debounce that fired but has not taken the lock yet must not undo a
// filter change or page that landed in between. The late fire is driven
// by hand so the interleaving is deterministic.
func TestLateSearchFireAfterCuisineChange(t *testing.T) {
	c, _, sink := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	c.SetSearch("saffron")
	c.SetCuisine("Italian")
	c.ShowMore()

	c.applyTypedSearch()
	assert.Equal(t, 2*c.PageSize(), c.DisplayedCount(), "late fire left the page alone")
	assert.Equal(t, "saffron", c.Search())
	assert.Equal(t, "Italian", c.Cuisine())

	select {
	case <-sink.ch:
		t.Fatal("absorbed search still rendered")
	case <-time.After(2 * testDebounce):
	}
}

func TestShowMoreAfterDebounceElapsed(t *testing.T) {
	c, _, sink := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	c.SetSearch("recipe")
	// The timer has fired: nothing is pending, the term is not applied yet.
	c.debounce.Cancel()
	require.False(t, c.SearchPending())

	v := c.ShowMore()
	assert.Equal(t, "recipe", v.Search)
	assert.Equal(t, 2*c.PageSize(), c.DisplayedCount())

	c.applyTypedSearch()
	assert.Equal(t, 2*c.PageSize(), c.DisplayedCount())
	select {
	case <-sink.ch:
		t.Fatal("search rendered twice")
	default:
	}
}

func TestOpenAndCloseModal(t *testing.T) {
	c, _, _ := setup(t, fiftyRecipes())
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	c.SetCuisine("Asian")
	before := c.Filtered()

	// Recipe 5 is Italian and not in the filtered view; lookup is in all.
	v, err := c.Open(5)
	require.NoError(t, err)
	require.NotNil(t, v.Modal)
	assert.Equal(t, "Saffron Risotto", v.Modal.Name)

	_, err = c.Open(999)
	require.ErrorIs(t, err, domain.ErrNotFound)

	v = c.CloseModal()
	assert.Nil(t, v.Modal)
	assert.Equal(t, before, c.Filtered())
	assert.Equal(t, "Asian", c.Cuisine())
}

func TestLoadFailure(t *testing.T) {
	c, src, _ := setup(t, fiftyRecipes())
	src.FailWith(&domain.NetworkError{Op: "GET /recipes", Err: errors.New("connection refused")})

	v, err := c.Load(context.Background())
	require.Error(t, err)
	var nerr *domain.NetworkError
	assert.ErrorAs(t, err, &nerr)

	assert.Equal(t, domain.MsgRecipesFailed, v.Error)
	assert.Empty(t, v.Cards)
	assert.False(t, v.ShowMore)
	assert.False(t, v.Empty)
	assert.Error(t, c.Err())

	// Manual retry succeeds.
	src.FailWith(nil)
	v, err = c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, v.Error)
	assert.Len(t, v.Cards, 9)
}

func TestReloadRebuildsCuisines(t *testing.T) {
	c, src, _ := setup(t, fiftyRecipes())
	ctx := context.Background()

	_, err := c.Load(ctx)
	require.NoError(t, err)
	_, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"American", "Asian", "Italian", "Mexican"}, c.Cuisines(), "no duplicated options")

	src.Replace(domain.Recipe{ID: 1, Name: "Pad Thai", Cuisine: "Thai"})
	c.SetCuisine("Italian")
	v, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Thai"}, v.Cuisines)
	assert.Equal(t, "", c.Cuisine(), "load resets the selection")
	assert.Equal(t, "Showing 1 of 1 recipes.", v.Status)
}

// blockingSource holds List until release is closed.
type blockingSource struct {
	release chan struct{}
	recipes []domain.Recipe
	once    sync.Once
	started chan struct{}
}

func (b *blockingSource) List(ctx context.Context) ([]domain.Recipe, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.recipes, nil
}

func TestLoadAbandonedAfterCancel(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), started: make(chan struct{}), recipes: fiftyRecipes()}
	c := New(src, logger.Nop())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Load(ctx)
		done <- err
	}()

	<-src.started
	cancel()
	close(src.release)

	require.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, c.All(), "abandoned load leaves state untouched")
}

func TestStaleLoadDiscarded(t *testing.T) {
	slow := &blockingSource{release: make(chan struct{}), started: make(chan struct{}), recipes: fiftyRecipes()}
	c := New(slow, logger.Nop())
	defer c.Close()

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		done <- err
	}()
	<-slow.started

	// A second load starts and finishes while the first is still waiting.
	c.src = recipe.NewMemorySource(logger.Nop(), domain.Recipe{ID: 1, Name: "Only"})
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	close(slow.release)
	require.ErrorIs(t, <-done, ErrSuperseded)
	assert.Len(t, c.All(), 1)
}

func TestPageSizeOption(t *testing.T) {
	src := recipe.NewMemorySource(logger.Nop(), fiftyRecipes()...)
	c := New(src, logger.Nop(), WithPageSize(20), WithPageSize(0))
	defer c.Close()

	v, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Showing 20 of 50 recipes.", v.Status)
}
