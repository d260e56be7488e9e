package domain

import "context"

// KVStore is the local persistent key-value store. Implementations can be
// in-memory, a JSON file, or SQLite. Get returns ErrNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator checks credentials against the remote API.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

// RecipeSource provides the full, unpaginated recipe collection in the
// order the source returns it.
type RecipeSource interface {
	List(ctx context.Context) ([]Recipe, error)
}

// Navigator switches the active page.
type Navigator interface {
	Navigate(page Page)
}

// Notifier delivers status messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyError(ctx context.Context, message string) error
}
