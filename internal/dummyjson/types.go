package dummyjson

import "github.com/hammamikhairi/recipebox/internal/domain"

// ── Wire types ───────────────────────────────────────────────────

// loginRequest is the body sent to /auth/login.
type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

// errorResponse is the envelope DummyJSON uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// recipesResponse is the /recipes listing envelope.
type recipesResponse struct {
	Recipes []domain.Recipe `json:"recipes"`
	Total   int             `json:"total"`
	Skip    int             `json:"skip"`
	Limit   int             `json:"limit"`
}

// usersResponse is the /users listing envelope.
type usersResponse struct {
	Users []domain.User `json:"users"`
	Total int           `json:"total"`
}
