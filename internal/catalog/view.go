package catalog

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// EmptyMessage is shown when no recipe survives the filters.
const EmptyMessage = "No recipes found."

// View is everything a screen needs to draw the catalog. It is derived
// from controller state by Render and holds no references back into it.
type View struct {
	Cards        []Card
	Empty        bool
	EmptyMessage string
	Error        string
	ShowMore     bool
	Shown        int
	Total        int
	Status       string
	Search       string
	Cuisine      string
	Cuisines     []string
	Modal        *Detail
}

// Card is one entry of the recipe grid.
type Card struct {
	ID           int
	Name         string
	Image        string
	Cuisine      string
	Difficulty   string
	TotalMinutes int
	Rating       float64
	Tags         []string
}

// Detail is the full recipe shown in the modal.
type Detail struct {
	ID           int
	Name         string
	Image        string
	Meta         string
	Cuisine      string
	Difficulty   string
	Servings     int
	Calories     int
	Rating       float64
	ReviewCount  int
	Ingredients  []string
	Instructions []string
	Tags         []string
	MealType     []string
}

// State is the input to Render.
type State struct {
	Filtered  []*domain.Recipe
	Displayed int
	Search    string
	Cuisine   string
	Cuisines  []string
	Modal     *domain.Recipe
	Err       error
}

// Render builds the view for s. It shows filtered[0:min(displayed, len)],
// the "show more" control iff more remain, and a status line that always
// reports how many of how many are shown. A load error replaces the list.
func Render(s State) View {
	v := View{
		Search:   s.Search,
		Cuisine:  s.Cuisine,
		Cuisines: append([]string(nil), s.Cuisines...),
	}

	if s.Err != nil {
		v.Error = domain.UserMessage(s.Err, domain.MsgRecipesFailed)
		v.Status = statusLine(0, 0)
		return v
	}

	total := len(s.Filtered)
	shown := min(s.Displayed, total)
	if shown < 0 {
		shown = 0
	}

	v.Cards = make([]Card, 0, shown)
	for _, r := range s.Filtered[:shown] {
		v.Cards = append(v.Cards, newCard(r))
	}
	if shown == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyMessage
	}
	v.ShowMore = s.Displayed < total
	v.Shown = shown
	v.Total = total
	v.Status = statusLine(shown, total)

	if s.Modal != nil {
		d := newDetail(s.Modal)
		v.Modal = &d
	}
	return v
}

func statusLine(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d recipes.", shown, total)
}

func newCard(r *domain.Recipe) Card {
	return Card{
		ID:           r.ID,
		Name:         r.Name,
		Image:        r.Image,
		Cuisine:      r.Cuisine,
		Difficulty:   r.Difficulty,
		TotalMinutes: r.TotalMinutes(),
		Rating:       r.Rating,
		Tags:         append([]string(nil), r.Tags...),
	}
}

func newDetail(r *domain.Recipe) Detail {
	return Detail{
		ID:           r.ID,
		Name:         r.Name,
		Image:        r.Image,
		Meta:         metaLine(r),
		Cuisine:      r.Cuisine,
		Difficulty:   r.Difficulty,
		Servings:     r.Servings,
		Calories:     r.CaloriesPerServing,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		Ingredients:  append([]string(nil), r.Ingredients...),
		Instructions: append([]string(nil), r.Instructions...),
		Tags:         append([]string(nil), r.Tags...),
		MealType:     append([]string(nil), r.MealType...),
	}
}

// metaLine is the one-line summary under the modal title, e.g.
// "Italian · Easy · prep 20m · cook 15m · serves 4 · 300 kcal".
func metaLine(r *domain.Recipe) string {
	var parts []string
	if r.Cuisine != "" {
		parts = append(parts, r.Cuisine)
	}
	if r.Difficulty != "" {
		parts = append(parts, r.Difficulty)
	}
	if r.PrepTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("prep %dm", r.PrepTimeMinutes))
	}
	if r.CookTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("cook %dm", r.CookTimeMinutes))
	}
	if r.Servings > 0 {
		parts = append(parts, fmt.Sprintf("serves %d", r.Servings))
	}
	if r.CaloriesPerServing > 0 {
		parts = append(parts, fmt.Sprintf("%d kcal", r.CaloriesPerServing))
	}
	return strings.Join(parts, " · ")
}
