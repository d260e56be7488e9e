package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoSession    = errors.New("no session")
	ErrUserNotFound = errors.New("username not found")
)

// User-facing messages.
const (
	MsgMissingCredentials = "Please enter username and password!"
	MsgLoginFailed        = "Login failed."
	MsgLoginSuccess       = "Login successful! Redirecting..."
	MsgUserNotFound       = "Username not found!"
	MsgConnectionFailed   = "Failed to connect to the server."
	MsgRecipesFailed      = "Failed to load recipes."
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError is a rejection from the authentication endpoint. Message holds
// the server-supplied text when there was one.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgLoginFailed
}

// NetworkError wraps a transport or decoding failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage converts an error into the text a screen should show.
// fallback is used for network failures and anything unclassified.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var aerr *AuthError
	if errors.As(err, &aerr) {
		return aerr.Error()
	}
	if errors.Is(err, ErrUserNotFound) {
		return MsgUserNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgConnectionFailed
	}
	return fallback
}
