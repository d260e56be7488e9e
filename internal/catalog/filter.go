package catalog

import (
	"sort"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Filter is the search term and cuisine selection applied to the full
// collection. The zero value matches everything.
type Filter struct {
	Search  string
	Cuisine string
}

// Match reports whether r passes both the cuisine test and the search test.
func (f Filter) Match(r *domain.Recipe) bool {
	if f.Cuisine != "" && r.Cuisine != f.Cuisine {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Apply returns pointers into all for every recipe that matches, in the
// order of all.
func Apply(all []domain.Recipe, f Filter) []*domain.Recipe {
	out := make([]*domain.Recipe, 0, len(all))
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, &all[i])
		}
	}
	return out
}

// Cuisines returns the distinct non-empty cuisines of all, sorted.
func Cuisines(all []domain.Recipe) []string {
	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0)
	for i := range all {
		c := all[i].Cuisine
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
