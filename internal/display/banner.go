package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art horizontally centred for width
// columns. A width of zero or less uses the current terminal width.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}

	lines := bannerLines()
	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	pad := 0
	if width > maxW {
		pad = (width - maxW) / 2
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(BannerStyle.Render(l))
	}
	return b.String()
}

// bannerBlock is the styled art with no padding, for layouts that centre
// it themselves.
func bannerBlock() string {
	lines := bannerLines()
	for i, l := range lines {
		lines[i] = BannerStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

func bannerLines() []string {
	return strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
