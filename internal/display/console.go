package display

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier  = (*Console)(nil)
	_ domain.Navigator = (*Console)(nil)
)

// Console reports gate events as plain styled lines. It backs the
// non-interactive commands, where there is no screen to switch to.
type Console struct {
	log *logger.Logger
	out io.Writer
}

// NewConsole creates a line-based notifier. If out is nil, os.Stdout is used.
func NewConsole(out io.Writer, log *logger.Logger) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{log: log, out: out}
}

// Notify prints a normal notification.
func (c *Console) Notify(ctx context.Context, message string) error {
	c.log.Debug("notify: %s", message)
	_, err := fmt.Fprintln(c.out, successStyle.Render(message))
	return err
}

// NotifyError prints an error notification.
func (c *Console) NotifyError(ctx context.Context, message string) error {
	c.log.Debug("notify-error: %s", message)
	_, err := fmt.Fprintln(c.out, urgentStyle.Render(message))
	return err
}

// Navigate only records the transition.
func (c *Console) Navigate(page domain.Page) {
	c.log.Debug("console: navigate to %s page", page)
}
