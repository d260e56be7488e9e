package main

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/catalog"
	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/dummyjson"
	"github.com/hammamikhairi/recipebox/internal/gate"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

var errNotLoggedIn = errors.New("not logged in, run 'recipebox login' first")

// reportedError wraps an error the console already showed the user. main
// exits non-zero without printing it again.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// reportError prints err for the user unless it was already shown.
func reportError(w io.Writer, err error) {
	var shown reportedError
	if errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "error:", err)
}

// app holds the wired dependencies for one command run.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	sessions *storage.SessionStore
	auth     domain.Authenticator
	recipes  *recipe.CachedSource
	closers  []io.Closer
}

// newApp loads configuration, applies flags that were set, and wires the
// stores and the DummyJSON client. Call Close when done.
func newApp(cmd *cobra.Command, gf *globalFlags) (*app, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, gf, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logOut, err := a.openLog()
	if err != nil {
		return nil, err
	}
	// Third-party packages that use the std log package write to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using normal)\n", err)
		level = logger.LevelNormal
	}
	if gf.verbose {
		level = logger.LevelVerbose
	}
	if gf.quiet {
		level = logger.LevelOff
	}
	a.log = logger.New(level, logOut)

	kv, closer, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closer)
	a.sessions = storage.NewSessionStore(kv)

	client := dummyjson.NewClient(a.log,
		dummyjson.WithBaseURL(cfg.API.BaseURL),
		dummyjson.WithHTTPTimeout(cfg.API.Timeout.Std()),
		dummyjson.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		dummyjson.WithExpiresInMins(cfg.Auth.ExpiresInMins),
	)
	a.auth = dummyjson.NewAuthenticator(client, cfg.Auth.Mode)

	var src domain.RecipeSource = dummyjson.NewRecipeSource(client)
	if cfg.API.RecipesFile != "" {
		mem, err := recipe.LoadFile(cfg.API.RecipesFile, a.log)
		if err != nil {
			a.Close()
			return nil, err
		}
		src = mem
	}
	a.recipes = recipe.NewCachedSource(src, cfg.Cache.TTL.Std(), a.log)

	a.log.Debug("app: api=%s storage=%s(%s) auth=%s", client.BaseURL(), cfg.Storage.Backend, cfg.Storage.Path, cfg.Auth.Mode)
	return a, nil
}

// gate builds a session gate reporting through nav and notifier.
func (a *app) gate(nav domain.Navigator, notifier domain.Notifier) *gate.Gate {
	return gate.New(a.auth, a.sessions, nav, notifier, a.log,
		gate.WithRedirectDelay(a.cfg.Auth.RedirectDelay.Std()),
	)
}

func (a *app) catalog() *catalog.Controller {
	return catalog.New(a.recipes, a.log,
		catalog.WithPageSize(a.cfg.Catalog.PageSize),
		catalog.WithSearchDebounce(a.cfg.Catalog.SearchDebounce.Std()),
	)
}

// Close releases the stores and the log file.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.log != nil {
			a.log.Warn("app: close: %v", err)
		}
	}
	a.closers = nil
}

// openLog directs logs to a file by default so the UI stays clean.
func (a *app) openLog() (io.Writer, error) {
	path := a.cfg.Logging.File
	if path == "" || path == "stderr" {
		return os.Stderr, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create log dir %s: %v (falling back to stderr)\n", dir, err)
			return os.Stderr, nil
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, nil
	}
	a.closers = append(a.closers, f)
	return f, nil
}

func applyFlags(cmd *cobra.Command, gf *globalFlags, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("log-file", &cfg.Logging.File, gf.logFile)
	set("api-url", &cfg.API.BaseURL, gf.apiURL)
	set("recipes-file", &cfg.API.RecipesFile, gf.recipesFile)
	set("auth-mode", &cfg.Auth.Mode, gf.authMode)
	set("storage", &cfg.Storage.Backend, gf.storage)
	set("storage-path", &cfg.Storage.Path, gf.storagePath)
}

// requireSession runs the catalog guard for commands that need a login.
func requireSession(cmd *cobra.Command, g *gate.Gate) error {
	d, err := g.Guard(cmd.Context(), domain.PageCatalog)
	if err != nil {
		return err
	}
	if d.Redirect {
		return errNotLoggedIn
	}
	return nil
}
