package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

var (
	sampleCuisines    = []string{"Italian", "Asian", "Mexican", "Indian", "Greek", ""}
	sampleIngredients = []string{"Basil", "Tofu", "Chicken breast", "Rice", "Feta cheese", "Garlic", "Lime"}
	sampleTags        = []string{"Pizza", "Vegetarian", "Quick", "Curry", "Salad", "Spicy"}
)

// randomRecipes builds n recipes with a fixed seed so failures reproduce.
func randomRecipes(seed int64, n int) []domain.Recipe {
	rng := rand.New(rand.NewSource(seed))
	out := make([]domain.Recipe, n)
	for i := range out {
		out[i] = domain.Recipe{
			ID:          i + 1,
			Name:        fmt.Sprintf("Dish %d %s", i+1, sampleTags[rng.Intn(len(sampleTags))]),
			Cuisine:     sampleCuisines[rng.Intn(len(sampleCuisines))],
			Ingredients: []string{sampleIngredients[rng.Intn(len(sampleIngredients))], sampleIngredients[rng.Intn(len(sampleIngredients))]},
			Tags:        []string{sampleTags[rng.Intn(len(sampleTags))]},
		}
	}
	return out
}

func matchesTerm(r domain.Recipe, term string) bool {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return true
	}
	fields := append([]string{r.Name}, r.Ingredients...)
	fields = append(fields, r.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func TestFilterMatch(t *testing.T) {
	r := &domain.Recipe{
		Name:        "Classic Margherita Pizza",
		Cuisine:     "Italian",
		Ingredients: []string{"Pizza dough", "Fresh basil leaves"},
		Tags:        []string{"Pizza", "Italian"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter", Filter{}, true},
		{"name substring", Filter{Search: "margher"}, true},
		{"case-insensitive", Filter{Search: "PIZZA"}, true},
		{"ingredient", Filter{Search: "basil"}, true},
		{"tag", Filter{Search: "italian"}, true},
		{"whitespace only", Filter{Search: "   "}, true},
		{"trimmed term", Filter{Search: " basil "}, true},
		{"no match", Filter{Search: "sushi"}, false},
		{"cuisine match", Filter{Cuisine: "Italian"}, true},
		{"cuisine mismatch", Filter{Cuisine: "Asian"}, false},
		{"cuisine is exact", Filter{Cuisine: "italian"}, false},
		{"both pass", Filter{Search: "dough", Cuisine: "Italian"}, true},
		{"search fails", Filter{Search: "tofu", Cuisine: "Italian"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(r); got != tt.want {
				t.Fatalf("Match(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestApplyIsOrderPreservingSubset(t *testing.T) {
	all := randomRecipes(42, 200)
	terms := []string{"", "basil", "QUICK", "dish 1", "rice", "nothing-matches"}
	cuisines := append([]string{"Nowhere"}, sampleCuisines...)

	for _, term := range terms {
		for _, cuisine := range cuisines {
			f := Filter{Search: term, Cuisine: cuisine}
			got := Apply(all, f)

			// Identity: every pointer is into all, and indexes strictly increase.
			last := -1
			for _, p := range got {
				idx := p.ID - 1
				if p != &all[idx] {
					t.Fatalf("%+v: result is not an element of all", f)
				}
				if idx <= last {
					t.Fatalf("%+v: order not preserved (%d after %d)", f, idx, last)
				}
				last = idx
			}

			// Exactly the matching recipes.
			want := 0
			for _, r := range all {
				ok := matchesTerm(r, term) && (cuisine == "" || r.Cuisine == cuisine)
				if ok {
					want++
				}
			}
			if len(got) != want {
				t.Fatalf("%+v: got %d results, want %d", f, len(got), want)
			}
			for _, p := range got {
				if !matchesTerm(*p, term) {
					t.Fatalf("%+v: %q does not match the term", f, p.Name)
				}
			}
		}
	}
}

func TestCuisinesDistinctSorted(t *testing.T) {
	all := []domain.Recipe{
		{Cuisine: "Thai"}, {Cuisine: "Italian"}, {Cuisine: ""}, {Cuisine: "Thai"}, {Cuisine: "American"},
	}
	want := []string{"American", "Italian", "Thai"}
	if diff := cmp.Diff(want, Cuisines(all)); diff != "" {
		t.Fatalf("cuisines mismatch (-want +got):\n%s", diff)
	}
	if got := Cuisines(nil); len(got) != 0 {
		t.Fatalf("expected no cuisines, got %v", got)
	}
}
