// Package domain defines the core types and interfaces for the recipe browser.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a catalog entry as served by the recipes endpoint. Recipes are
// never mutated after they are fetched.
type Recipe struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Image              string   `json:"image"`
	Cuisine            string   `json:"cuisine"`
	Difficulty         string   `json:"difficulty"`
	PrepTimeMinutes    int      `json:"prepTimeMinutes"`
	CookTimeMinutes    int      `json:"cookTimeMinutes"`
	Servings           int      `json:"servings"`
	CaloriesPerServing int      `json:"caloriesPerServing"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"reviewCount"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	Tags               []string `json:"tags"`
	MealType           []string `json:"mealType"`
}

// TotalMinutes returns prep plus cook time.
func (r *Recipe) TotalMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}
