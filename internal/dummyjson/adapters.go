package dummyjson

import (
	"context"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Authenticator = (*LoginAuthenticator)(nil)
	_ domain.Authenticator = (*LookupAuthenticator)(nil)
	_ domain.RecipeSource  = (*RecipeSource)(nil)
)

// Auth modes accepted by NewAuthenticator.
const (
	AuthModeLogin  = "login"
	AuthModeLookup = "lookup"
)

// LoginAuthenticator checks credentials with /auth/login.
type LoginAuthenticator struct{ c *Client }

// Authenticate implements domain.Authenticator.
func (a *LoginAuthenticator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return a.c.Login(ctx, username, password)
}

// LookupAuthenticator accepts any password for a username present in the
// /users listing. It mirrors the older demo behaviour and is only useful
// against the public demo data.
type LookupAuthenticator struct{ c *Client }

// Authenticate implements domain.Authenticator.
func (a *LookupAuthenticator) Authenticate(ctx context.Context, username, _ string) (*domain.User, error) {
	return a.c.FindUser(ctx, username)
}

// NewAuthenticator returns the authenticator for mode, defaulting to login.
func NewAuthenticator(c *Client, mode string) domain.Authenticator {
	if mode == AuthModeLookup {
		return &LookupAuthenticator{c: c}
	}
	return &LoginAuthenticator{c: c}
}

// RecipeSource exposes the /recipes listing as a domain.RecipeSource.
type RecipeSource struct{ c *Client }

// NewRecipeSource wraps c.
func NewRecipeSource(c *Client) *RecipeSource { return &RecipeSource{c: c} }

// List implements domain.RecipeSource.
func (s *RecipeSource) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.c.Recipes(ctx)
}
