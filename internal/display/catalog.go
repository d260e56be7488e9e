package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebox/internal/catalog"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Card grid geometry. cardHeight includes the border.
const (
	cardWidth  = 30
	cardHeight = 6
	maxColumns = 3
	// Lines taken by everything around the grid.
	catalogChrome = 10
)

// catalogScreen is the recipe browser.
type catalogScreen struct {
	search  textinput.Model
	view    catalog.View
	cursor  int
	user    *domain.SessionRecord
	loading bool
	notice  noticeMsg
}

func newCatalogScreen() catalogScreen {
	ti := textinput.New()
	ti.Prompt = "search: "
	ti.Placeholder = "name, ingredient or tag"
	ti.PromptStyle = promptStyle
	ti.TextStyle = primaryStyle
	ti.PlaceholderStyle = secondaryStyle
	ti.Cursor.Style = promptStyle
	ti.CharLimit = 100
	ti.Width = 40
	return catalogScreen{search: ti}
}

func (s *catalogScreen) reset() {
	s.search.Reset()
	s.search.Focus()
	s.view = catalog.View{}
	s.cursor = 0
	s.user = nil
	s.loading = false
	s.notice = noticeMsg{}
}

func (s *catalogScreen) resize(width int) {
	const promptLen = len("search: ")
	if width > promptLen+4 {
		s.search.Width = width - promptLen - 4
	}
}

// setView installs v, sending the cursor home when the filters changed
// and keeping it on a card otherwise.
func (s *catalogScreen) setView(v catalog.View) {
	if v.Search != s.view.Search || v.Cuisine != s.view.Cuisine {
		s.cursor = 0
	}
	s.view = v
	s.cursor = clamp(s.cursor, 0, len(v.Cards)-1)
}

func (m model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.deps.Catalog

	if m.catalog.view.Modal != nil {
		if msg.Type == tea.KeyEsc {
			m.catalog.setView(ctl.CloseModal())
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.catalog.setView(ctl.SetCuisine(nextCuisine(m.catalog.view, 1)))
		return m, nil
	case "shift+tab":
		m.catalog.setView(ctl.SetCuisine(nextCuisine(m.catalog.view, -1)))
		return m, nil
	case "ctrl+n":
		if m.catalog.view.ShowMore {
			m.catalog.setView(ctl.ShowMore())
		}
		return m, nil
	case "up":
		m.catalog.cursor = clamp(m.catalog.cursor-1, 0, len(m.catalog.view.Cards)-1)
		return m, nil
	case "down":
		m.catalog.cursor = clamp(m.catalog.cursor+1, 0, len(m.catalog.view.Cards)-1)
		return m, nil
	case "enter":
		cards := m.catalog.view.Cards
		if len(cards) == 0 {
			return m, nil
		}
		v, err := ctl.Open(cards[m.catalog.cursor].ID)
		if err != nil {
			m.log.Warn("display: open recipe: %v", err)
		}
		m.catalog.setView(v)
		return m, nil
	case "ctrl+r":
		if m.deps.Invalidate != nil {
			m.deps.Invalidate()
		}
		m.catalog.loading = true
		m.catalog.notice = noticeMsg{}
		return m, loadCmd(m.pageCtx, ctl)
	case "ctrl+o":
		return m, logoutCmd(m.pageCtx, m.deps.Gate)
	}

	before := m.catalog.search.Value()
	var cmd tea.Cmd
	m.catalog.search, cmd = m.catalog.search.Update(msg)
	if after := m.catalog.search.Value(); after != before {
		ctl.SetSearch(after)
	}
	return m, cmd
}

// nextCuisine steps the selection by dir through "all" followed by the
// cuisine options, wrapping at both ends.
func nextCuisine(v catalog.View, dir int) string {
	options := append([]string{""}, v.Cuisines...)
	idx := 0
	for i, c := range options {
		if c == v.Cuisine {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(options)) % len(options)
	return options[idx]
}

func (m model) viewCatalog() string {
	s := m.catalog

	if s.view.Modal != nil {
		box := renderDetail(s.view.Modal, m.width, m.height)
		if m.width > 0 && m.height > 0 {
			box = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
		}
		return box + "\n" + renderHelp(m.width, "esc", "close", "ctrl+c", "quit")
	}

	var b strings.Builder

	greeting := "Recipes"
	if s.user != nil {
		greeting = fmt.Sprintf("Welcome, %s!", s.user.DisplayName())
	}
	b.WriteString(titleStyle.Render(greeting))
	b.WriteString("\n\n")
	b.WriteString(s.search.View())
	b.WriteByte('\n')
	b.WriteString(renderCuisines(s.view))
	b.WriteString("\n\n")

	if s.loading && len(s.view.Cards) == 0 && s.view.Error == "" {
		b.WriteString(m.spin.View() + secondaryStyle.Render(" loading recipes…"))
		b.WriteByte('\n')
	} else {
		b.WriteString(renderCatalogBody(s.view, s.cursor, m.width, m.height))
	}

	if line := renderNotice(s.notice); line != "" {
		b.WriteString("\n" + line)
	}
	b.WriteByte('\n')
	b.WriteString(renderHelp(m.width,
		"↑/↓", "move", "enter", "open", "tab", "cuisine", "ctrl+n", "more",
		"ctrl+r", "reload", "ctrl+o", "logout", "ctrl+c", "quit"))
	return b.String()
}

// ── Renderers ────────────────────────────────────────────────────

// renderCatalogBody draws the card grid, status line and "show more"
// hint for v. Only the grid rows that fit in height are drawn, scrolled
// so the cursor stays visible. A height of zero draws everything.
func renderCatalogBody(v catalog.View, cursor, width, height int) string {
	var b strings.Builder

	switch {
	case v.Error != "":
		b.WriteString(urgentStyle.Render(v.Error))
		b.WriteByte('\n')
	case v.Empty:
		b.WriteString(secondaryStyle.Render(v.EmptyMessage))
		b.WriteByte('\n')
	default:
		cols := gridColumns(width)
		maxRows := 0
		if height > 0 {
			maxRows = max(1, (height-catalogChrome)/cardHeight)
		}
		first, last := visibleRows(cursor, cols, len(v.Cards), maxRows)

		rows := make([]string, 0, last-first)
		for r := first; r < last; r++ {
			var cells []string
			for i := r * cols; i < min((r+1)*cols, len(v.Cards)); i++ {
				cells = append(cells, renderCard(v.Cards[i], i == cursor))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
		b.WriteByte('\n')
	}

	b.WriteString(labelStyle.Render(v.Status))
	if v.ShowMore {
		b.WriteString(sepStyle.Render("  │  "))
		b.WriteString(promptStyle.Render("ctrl+n show more"))
	}
	b.WriteByte('\n')
	return b.String()
}

func renderCard(c catalog.Card, focused bool) string {
	inner := cardWidth - 4

	style := cardStyle
	name := primaryStyle.Bold(true).Render(truncate(c.Name, inner))
	if focused {
		style = cardFocusStyle
		name = titleStyle.Render(truncate(c.Name, inner))
	}

	meta := joinNonEmpty(" · ", c.Cuisine, c.Difficulty)
	timing := fmt.Sprintf("%d min", c.TotalMinutes)
	rating := ratingStyle.Render(fmt.Sprintf("★ %.1f", c.Rating))

	lines := []string{
		name,
		secondaryStyle.Render(truncate(meta, inner)),
		primaryStyle.Render(timing) + "  " + rating,
		secondaryStyle.Render(truncate(strings.Join(c.Tags, ", "), inner)),
	}
	return style.Width(cardWidth - 2).Render(strings.Join(lines, "\n"))
}

// renderDetail draws the modal for d, capped to the screen size when it
// is known.
func renderDetail(d *catalog.Detail, width, height int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Name))
	b.WriteByte('\n')
	if d.Meta != "" {
		b.WriteString(secondaryStyle.Render(d.Meta))
		b.WriteByte('\n')
	}
	b.WriteString(ratingStyle.Render(fmt.Sprintf("★ %.1f", d.Rating)))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf(" (%d reviews)", d.ReviewCount)))
	if d.Calories > 0 {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf(" · %d kcal/serving", d.Calories)))
	}
	b.WriteByte('\n')

	b.WriteString("\n" + labelStyle.Render("Ingredients") + "\n")
	for _, ing := range d.Ingredients {
		b.WriteString(primaryStyle.Render("  • " + ing))
		b.WriteByte('\n')
	}

	b.WriteString("\n" + labelStyle.Render("Instructions") + "\n")
	for i, step := range d.Instructions {
		b.WriteString(primaryStyle.Render(fmt.Sprintf("  %d. %s", i+1, step)))
		b.WriteByte('\n')
	}

	if len(d.Tags) > 0 {
		b.WriteString("\n" + secondaryStyle.Render("tags: "+strings.Join(d.Tags, ", ")))
		b.WriteByte('\n')
	}
	if d.Image != "" {
		b.WriteString(secondaryStyle.Render(d.Image))
	}

	style := modalStyle
	if width > 0 {
		style = style.Width(min(width-4, 80))
	}
	if height > 0 {
		style = style.MaxHeight(height - 2)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func renderCuisines(v catalog.View) string {
	chips := make([]string, 0, len(v.Cuisines)+1)
	for _, c := range append([]string{""}, v.Cuisines...) {
		label := c
		if c == "" {
			label = "All"
		}
		if c == v.Cuisine {
			chips = append(chips, chipStyle.Render(label))
		} else {
			chips = append(chips, chipIdleStyle.Render(label))
		}
	}
	return strings.Join(chips, " ")
}

func renderNotice(n noticeMsg) string {
	switch {
	case n.text == "":
		return ""
	case n.isErr:
		return urgentStyle.Render(n.text)
	default:
		return successStyle.Render(n.text)
	}
}

// renderHelp draws a key bar from key/description pairs.
func renderHelp(width int, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, promptStyle.Render(pairs[i])+" "+labelStyle.Render(pairs[i+1]))
	}
	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

// ── Helpers ──────────────────────────────────────────────────────

// gridColumns is how many cards fit side by side in width.
func gridColumns(width int) int {
	if width <= 0 {
		return maxColumns
	}
	return clamp(width/cardWidth, 1, maxColumns)
}

// visibleRows returns the half-open range of grid rows to draw so that
// the row holding cursor is visible. maxRows <= 0 means no limit.
func visibleRows(cursor, cols, cards, maxRows int) (first, last int) {
	rows := (cards + cols - 1) / cols
	if maxRows <= 0 || rows <= maxRows {
		return 0, rows
	}
	cur := cursor / cols
	first = max(0, cur-maxRows+1)
	return first, first + maxRows
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
