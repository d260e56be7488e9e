package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/recipebox/internal/catalog"
)

// RecipeTable renders the cards of v as a table followed by the status
// line, for non-interactive output. Errors and the empty state replace
// the table.
func RecipeTable(v catalog.View) string {
	var b strings.Builder

	switch {
	case v.Error != "":
		b.WriteString(urgentStyle.Render(v.Error))
	case v.Empty:
		b.WriteString(secondaryStyle.Render(v.EmptyMessage))
	default:
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(sepStyle).
			Headers("ID", "NAME", "CUISINE", "DIFFICULTY", "MINUTES", "RATING").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return labelStyle.Bold(true).Padding(0, 1)
				}
				return primaryStyle.Padding(0, 1)
			})
		for _, c := range v.Cards {
			t.Row(
				strconv.Itoa(c.ID),
				c.Name,
				c.Cuisine,
				c.Difficulty,
				strconv.Itoa(c.TotalMinutes),
				fmt.Sprintf("%.1f", c.Rating),
			)
		}
		b.WriteString(t.String())
	}

	b.WriteByte('\n')
	b.WriteString(v.Status)
	return b.String()
}
