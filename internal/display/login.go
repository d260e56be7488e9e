package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

// loginScreen is the sign-in form.
type loginScreen struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	loading bool
	notice  noticeMsg
}

func newLoginScreen() loginScreen {
	var s loginScreen

	user := textinput.New()
	user.Prompt = "username: "
	user.CharLimit = 64
	user.Width = 32

	pass := textinput.New()
	pass.Prompt = "password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 64
	pass.Width = 32

	for _, ti := range []*textinput.Model{&user, &pass} {
		ti.PromptStyle = promptStyle
		ti.TextStyle = primaryStyle
		ti.Cursor.Style = promptStyle
	}

	s.inputs[fieldUsername] = user
	s.inputs[fieldPassword] = pass
	s.reset()
	return s
}

// reset clears the form and focuses the username field.
func (s *loginScreen) reset() {
	for i := range s.inputs {
		s.inputs[i].Reset()
	}
	s.loading = false
	s.notice = noticeMsg{}
	s.setFocus(fieldUsername)
}

func (s *loginScreen) setFocus(i int) {
	s.focus = (i + fieldCount) % fieldCount
	for j := range s.inputs {
		if j == s.focus {
			s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
}

func (s *loginScreen) resize(width int) {
	const promptLen = len("password: ")
	w := width/2 - promptLen
	if w < 16 {
		w = 16
	}
	for i := range s.inputs {
		s.inputs[i].Width = w
	}
}

func (s *loginScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.login.setFocus(m.login.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.login.setFocus(m.login.focus - 1)
		return m, nil
	case "enter":
		if m.login.loading {
			return m, nil
		}
		// Loader on, message cleared, until the attempt resolves.
		m.login.loading = true
		m.login.notice = noticeMsg{}
		return m, loginCmd(m.pageCtx, m.deps.Gate,
			m.login.inputs[fieldUsername].Value(),
			m.login.inputs[fieldPassword].Value())
	}

	if m.login.loading {
		return m, nil
	}
	return m, m.login.updateFocused(msg)
}

func (m model) viewLogin() string {
	s := m.login

	var form strings.Builder
	form.WriteString(titleStyle.Render("Sign in"))
	form.WriteString("\n\n")
	for i := range s.inputs {
		form.WriteString(s.inputs[i].View())
		form.WriteByte('\n')
	}
	form.WriteByte('\n')
	if s.loading {
		form.WriteString(m.spin.View() + secondaryStyle.Render(" signing in…"))
	} else {
		form.WriteString(secondaryStyle.Render("enter to sign in"))
	}
	if line := renderNotice(s.notice); line != "" {
		form.WriteString("\n\n" + line)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		bannerBlock(),
		"",
		formStyle.Render(form.String()),
	)
	help := renderHelp(m.width, "tab", "switch field", "enter", "sign in", "ctrl+c", "quit")

	if m.width > 0 && m.height > 0 {
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	}
	return body + "\n" + help
}
