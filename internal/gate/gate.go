// Package gate implements the session gate: the presence check that guards
// each page, and the login and logout operations that create and destroy
// the local session record.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

// DefaultRedirectDelay is how long the success message stays up before
// the catalog opens.
const DefaultRedirectDelay = time.Second

// SessionStore is the subset of storage.SessionStore the gate needs.
type SessionStore interface {
	Save(ctx context.Context, rec domain.SessionRecord) error
	Load(ctx context.Context) (*domain.SessionRecord, error)
	Exists(ctx context.Context) (bool, error)
	Delete(ctx context.Context) error
}

// Option configures the gate.
type Option func(*Gate)

// WithRedirectDelay sets the pause between a successful login and the
// navigation to the catalog.
func WithRedirectDelay(d time.Duration) Option {
	return func(g *Gate) { g.redirectDelay = d }
}

// Decision is the outcome of Guard.
type Decision struct {
	// Redirect is true when the caller must leave the page for Target.
	Redirect bool
	Target   domain.Page
}

// Continue is the decision to stay on the current page.
var Continue = Decision{}

// credentials are validated after trimming.
type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Gate owns the session record lifecycle.
type Gate struct {
	auth          domain.Authenticator
	sessions      SessionStore
	nav           domain.Navigator
	notifier      domain.Notifier
	log           *logger.Logger
	validate      *validator.Validate
	redirectDelay time.Duration
	redirect      timer.Deferred
}

// New creates a gate with the given dependencies and options.
func New(auth domain.Authenticator, sessions SessionStore, nav domain.Navigator, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Gate {
	g := &Gate{
		auth:          auth,
		sessions:      sessions,
		nav:           nav,
		notifier:      notifier,
		log:           log,
		validate:      validator.New(),
		redirectDelay: DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Guard decides whether page may render. Only presence of the record is
// checked; its contents are not validated and it never expires.
func (g *Gate) Guard(ctx context.Context, page domain.Page) (Decision, error) {
	present, err := g.sessions.Exists(ctx)
	if err != nil {
		return Continue, fmt.Errorf("checking session: %w", err)
	}

	switch {
	case page == domain.PageLogin && present:
		g.log.Debug("guard: session present on login page, redirecting to catalog")
		return Decision{Redirect: true, Target: domain.PageCatalog}, nil
	case page == domain.PageCatalog && !present:
		g.log.Debug("guard: no session on catalog page, redirecting to login")
		return Decision{Redirect: true, Target: domain.PageLogin}, nil
	default:
		return Continue, nil
	}
}

// Current returns the stored record, or domain.ErrNoSession.
func (g *Gate) Current(ctx context.Context) (*domain.SessionRecord, error) {
	return g.sessions.Load(ctx)
}

// Login validates the input, delegates the credential check and, on
// success, stores the session record and schedules the redirect to the
// catalog. Every outcome is also reported through the notifier. A login
// whose ctx is cancelled while the call is in flight is dropped silently.
func (g *Gate) Login(ctx context.Context, username, password string) (*domain.SessionRecord, error) {
	creds := credentials{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if err := g.validate.Struct(creds); err != nil {
		verr := &domain.ValidationError{Message: domain.MsgMissingCredentials}
		g.notifier.NotifyError(ctx, verr.Message)
		return nil, verr
	}

	g.log.Info("login attempt for %q", creds.Username)

	user, err := g.auth.Authenticate(ctx, creds.Username, creds.Password)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		g.log.Warn("login failed for %q: %v", creds.Username, err)
		g.notifier.NotifyError(ctx, domain.UserMessage(err, domain.MsgConnectionFailed))
		return nil, err
	}

	rec := domain.ProjectSession(user)
	if err := g.sessions.Save(ctx, rec); err != nil {
		g.log.Error("saving session for %q: %v", rec.Username, err)
		g.notifier.NotifyError(ctx, domain.MsgLoginFailed)
		return nil, fmt.Errorf("saving session: %w", err)
	}

	g.log.Info("logged in as %s (id=%d)", rec.Username, rec.ID)
	g.notifier.Notify(ctx, domain.MsgLoginSuccess)

	g.redirect.Schedule(g.redirectDelay, func() {
		g.nav.Navigate(domain.PageCatalog)
	})
	return &rec, nil
}

// RedirectPending reports whether the post-login redirect is still waiting.
func (g *Gate) RedirectPending() bool {
	return g.redirect.Pending()
}

// CancelPending drops a redirect that has not fired yet. Called when the
// user leaves the login page some other way.
func (g *Gate) CancelPending() {
	if g.redirect.Cancel() {
		g.log.Debug("cancelled pending redirect")
	}
}

// Logout deletes the session record and returns to the login page.
func (g *Gate) Logout(ctx context.Context) error {
	g.CancelPending()

	if err := g.sessions.Delete(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	g.log.Info("logged out")
	g.nav.Navigate(domain.PageLogin)
	return nil
}
