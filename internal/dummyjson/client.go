// Package dummyjson is a small client for the DummyJSON demo API: the
// /auth/login endpoint, the /users listing and the /recipes listing.
package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// DefaultBaseURL is the public demo API.
const DefaultBaseURL = "https://dummyjson.com"

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another server (tests, mirrors).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps outgoing requests at rps per second with the given
// burst. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithExpiresInMins sets the token lifetime requested on login.
func WithExpiresInMins(n int) ClientOption {
	return func(c *Client) { c.expiresInMins = n }
}

// Client talks to the DummyJSON API.
type Client struct {
	baseURL       string
	expiresInMins int
	http          *http.Client
	limiter       *rate.Limiter
	log           *logger.Logger
}

// NewClient creates an API client with sensible defaults.
func NewClient(log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Login posts credentials to /auth/login. A non-2xx reply becomes a
// *domain.AuthError carrying the server's message.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body, err := json.Marshal(loginRequest{
		Username:      username,
		Password:      password,
		ExpiresInMins: c.expiresInMins,
	})
	if err != nil {
		return nil, fmt.Errorf("dummyjson: marshal login: %w", err)
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &domain.AuthError{Status: status, Message: serverMessage(respBody)}
	}

	var user domain.User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, &domain.NetworkError{Op: "dummyjson: decode login", Err: err}
	}
	c.log.Debug("dummyjson: logged in as %s (id=%d)", user.Username, user.ID)
	return &user, nil
}

// FindUser looks a user up in the /users listing by case-insensitive
// username. Returns domain.ErrUserNotFound when nobody matches.
func (c *Client) FindUser(ctx context.Context, username string) (*domain.User, error) {
	var out usersResponse
	if err := c.getJSON(ctx, "/users?limit=0", &out); err != nil {
		return nil, err
	}
	for i := range out.Users {
		if strings.EqualFold(out.Users[i].Username, username) {
			return &out.Users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Recipes fetches the full recipe collection in server order.
func (c *Client) Recipes(ctx context.Context) ([]domain.Recipe, error) {
	var out recipesResponse
	if err := c.getJSON(ctx, "/recipes?limit=0", &out); err != nil {
		return nil, err
	}
	c.log.Debug("dummyjson: fetched %d of %d recipes", len(out.Recipes), out.Total)
	return out.Recipes, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		msg := serverMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &domain.NetworkError{Op: "dummyjson: GET " + path, Err: fmt.Errorf("status %d: %s", status, msg)}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &domain.NetworkError{Op: "dummyjson: decode " + path, Err: err}
	}
	return nil
}

// do sends one request and returns the status and full body. Transport
// failures come back as *domain.NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, &domain.NetworkError{Op: "dummyjson: rate limit", Err: err}
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("dummyjson: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("dummyjson: %s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &domain.NetworkError{Op: "dummyjson: " + method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &domain.NetworkError{Op: "dummyjson: read response", Err: err}
	}
	return resp.StatusCode, respBody, nil
}

func serverMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Message)
}
