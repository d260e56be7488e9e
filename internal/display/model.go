package display

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipebox/internal/catalog"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/gate"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// ── Messages ─────────────────────────────────────────────────────

type (
	navigateMsg struct{ page domain.Page }
	noticeMsg   struct {
		text  string
		isErr bool
	}
	// refreshMsg asks the model to re-read the catalog view.
	refreshMsg struct{}
	guardMsg   struct {
		page     domain.Page
		decision gate.Decision
		err      error
	}
	loginDoneMsg struct{ err error }
	loadedMsg    struct {
		view catalog.View
		err  error
	}
	sessionMsg    struct{ rec *domain.SessionRecord }
	logoutDoneMsg struct{ err error }
)

// ── Root model ───────────────────────────────────────────────────

// model switches between the two screens. Every page visit gets its own
// context; leaving the page cancels it, and with it any request the page
// still has in flight.
type model struct {
	ui   *UI
	deps Deps
	log  *logger.Logger

	page  domain.Page
	ready bool // the gate has let page render

	pageCtx    context.Context
	pageCancel context.CancelFunc

	width, height int
	spin          spinner.Model

	login   loginScreen
	catalog catalogScreen
}

func newModel(u *UI, deps Deps, start domain.Page) model {
	ctx, cancel := context.WithCancel(context.Background())
	return model{
		ui:         u,
		deps:       deps,
		log:        u.log,
		page:       start,
		pageCtx:    ctx,
		pageCancel: cancel,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(promptStyle)),
		login:      newLoginScreen(),
		catalog:    newCatalogScreen(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		guardCmd(m.pageCtx, m.deps.Gate, m.page),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.ready {
			return m, nil
		}
		if m.page == domain.PageLogin {
			return m.updateLogin(msg)
		}
		return m.updateCatalog(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.login.resize(msg.Width)
		m.catalog.resize(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case navigateMsg:
		m.log.Debug("display: navigate %s -> %s", m.page, msg.page)
		return m.enter(msg.page)

	case guardMsg:
		return m.handleGuard(msg)

	case noticeMsg:
		if m.page == domain.PageLogin {
			m.login.notice = msg
		} else {
			m.catalog.notice = msg
		}
		return m, nil

	case loginDoneMsg:
		m.login.loading = false
		if msg.err != nil && !isAbandoned(msg.err) {
			m.log.Debug("display: login returned %v", msg.err)
		}
		return m, nil

	case loadedMsg:
		if isAbandoned(msg.err) {
			return m, nil
		}
		m.catalog.loading = false
		m.catalog.search.SetValue("")
		m.catalog.setView(msg.view)
		return m, nil

	case refreshMsg:
		if m.page == domain.PageCatalog && m.ready {
			m.catalog.setView(m.deps.Catalog.View())
		}
		return m, nil

	case sessionMsg:
		m.catalog.user = msg.rec
		return m, nil

	case logoutDoneMsg:
		if msg.err != nil {
			m.log.Error("display: logout: %v", msg.err)
			m.catalog.notice = noticeMsg{text: "Logout failed.", isErr: true}
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) View() string {
	if !m.ready {
		return "\n  " + m.spin.View() + secondaryStyle.Render(" loading…")
	}
	if m.page == domain.PageLogin {
		return m.viewLogin()
	}
	return m.viewCatalog()
}

// ── Navigation ───────────────────────────────────────────────────

// enter leaves the current page and asks the gate about the next one.
func (m model) enter(page domain.Page) (tea.Model, tea.Cmd) {
	if m.page == domain.PageLogin {
		m.deps.Gate.CancelPending()
	}
	m.closePage()

	m.pageCtx, m.pageCancel = context.WithCancel(context.Background())
	m.page = page
	m.ready = false
	return m, guardCmd(m.pageCtx, m.deps.Gate, page)
}

func (m model) handleGuard(msg guardMsg) (tea.Model, tea.Cmd) {
	if msg.page != m.page || m.ready {
		return m, nil
	}
	if msg.err != nil {
		m.log.Error("display: guard for %s page: %v", msg.page, msg.err)
		if msg.page != domain.PageLogin {
			return m.enter(domain.PageLogin)
		}
	}
	if msg.decision.Redirect {
		return m.enter(msg.decision.Target)
	}

	m.ready = true
	if m.page == domain.PageLogin {
		m.login.reset()
		return m, textinput.Blink
	}

	m.catalog.reset()
	m.catalog.loading = true
	return m, tea.Batch(
		textinput.Blink,
		loadCmd(m.pageCtx, m.deps.Catalog),
		currentCmd(m.pageCtx, m.deps.Gate),
	)
}

func (m model) closePage() {
	if m.pageCancel != nil {
		m.pageCancel()
	}
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.page == domain.PageLogin {
		cmd = m.login.updateFocused(msg)
	} else {
		m.catalog.search, cmd = m.catalog.search.Update(msg)
	}
	return m, cmd
}

// ── Commands ─────────────────────────────────────────────────────

func guardCmd(ctx context.Context, g *gate.Gate, page domain.Page) tea.Cmd {
	return func() tea.Msg {
		d, err := g.Guard(ctx, page)
		return guardMsg{page: page, decision: d, err: err}
	}
}

func loginCmd(ctx context.Context, g *gate.Gate, username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := g.Login(ctx, username, password)
		return loginDoneMsg{err: err}
	}
}

func loadCmd(ctx context.Context, c *catalog.Controller) tea.Cmd {
	return func() tea.Msg {
		v, err := c.Load(ctx)
		return loadedMsg{view: v, err: err}
	}
}

func currentCmd(ctx context.Context, g *gate.Gate) tea.Cmd {
	return func() tea.Msg {
		rec, err := g.Current(ctx)
		if err != nil {
			return sessionMsg{}
		}
		return sessionMsg{rec: rec}
	}
}

func logoutCmd(ctx context.Context, g *gate.Gate) tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: g.Logout(ctx)}
	}
}

// isAbandoned reports whether err means the result belongs to a page
// visit or load that is no longer current.
func isAbandoned(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, catalog.ErrSuperseded)
}
