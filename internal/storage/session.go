package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// SessionKey is the single key holding the serialized session record.
const SessionKey = "loggedUser"

// SessionStore reads and writes the session record in a KVStore.
type SessionStore struct {
	kv domain.KVStore
}

// NewSessionStore wraps kv.
func NewSessionStore(kv domain.KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save persists the record, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, rec domain.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.kv.Set(ctx, SessionKey, raw)
}

// Load returns the stored record. ErrNoSession means logged out.
func (s *SessionStore) Load(ctx context.Context) (*domain.SessionRecord, error) {
	raw, err := s.kv.Get(ctx, SessionKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &rec, nil
}

// Exists reports whether a record is present, without decoding it.
func (s *SessionStore) Exists(ctx context.Context) (bool, error) {
	_, err := s.kv.Get(ctx, SessionKey)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record.
func (s *SessionStore) Delete(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionKey)
}
