// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type owns one tea.Program with two screens, login and
// catalog. It implements domain.Navigator and domain.Notifier by
// posting messages to the program, so the session gate and the catalog
// debouncer may call it from any goroutine.
package display

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipebox/internal/catalog"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/gate"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Navigator = (*UI)(nil)
	_ domain.Notifier  = (*UI)(nil)
)

// Deps are the controllers the screens drive.
type Deps struct {
	Gate    *gate.Gate
	Catalog *catalog.Controller
	// Invalidate drops cached recipes before an explicit reload. Optional.
	Invalidate func()
}

// Option configures a UI.
type Option func(*UI)

// WithProgramOptions passes options through to tea.NewProgram.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(u *UI) { u.programOpts = append(u.programOpts, opts...) }
}

// UI manages the terminal through Bubble Tea.
//
// Create it with [NewUI], hand it to the gate as navigator and notifier,
// then call [UI.Run] (blocking).
type UI struct {
	log         *logger.Logger
	programOpts []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	sink    func(tea.Msg) // replaces the program in tests
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(log *logger.Logger, opts ...Option) *UI {
	u := &UI{log: log}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Navigate switches to page. Thread-safe.
func (u *UI) Navigate(page domain.Page) {
	u.send(navigateMsg{page: page})
}

// Notify shows a success message on the current screen. Thread-safe.
func (u *UI) Notify(ctx context.Context, message string) error {
	u.log.Debug("notify: %s", message)
	u.send(noticeMsg{text: message})
	return nil
}

// NotifyError shows an error message on the current screen. Thread-safe.
func (u *UI) NotifyError(ctx context.Context, message string) error {
	u.log.Debug("notify-error: %s", message)
	u.send(noticeMsg{text: message, isErr: true})
	return nil
}

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	u.mu.Lock()
	p := u.program
	u.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Run starts the Bubble Tea event loop on start and blocks until quit.
// The gate decides whether start is shown or redirected.
func (u *UI) Run(ctx context.Context, deps Deps, start domain.Page) error {
	m := newModel(u, deps, start)

	// The debounced search recompute lands here on the timer goroutine.
	deps.Catalog.OnRender(u.renderHook)

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, u.programOpts...)
	p := tea.NewProgram(m, opts...)

	u.mu.Lock()
	u.program = p
	u.mu.Unlock()

	final, err := p.Run()
	u.done.Store(true)
	deps.Catalog.OnRender(nil)
	if fm, ok := final.(model); ok {
		fm.closePage()
	}
	return err
}

// renderHook tells the program the controller has a new view. The model
// re-reads the view on the UI goroutine, so a late message never
// overwrites newer state. Send runs on its own goroutine because a zero
// debounce calls the hook from inside Update.
func (u *UI) renderHook(catalog.View) {
	go u.send(refreshMsg{})
}

func (u *UI) send(msg tea.Msg) {
	u.mu.Lock()
	p, sink := u.program, u.sink
	u.mu.Unlock()

	if sink != nil {
		sink(msg)
		return
	}
	if p == nil || u.done.Load() {
		u.log.Debug("display: dropped %T, program not running", msg)
		return
	}
	p.Send(msg)
}
