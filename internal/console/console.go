// Package console renders the operator-facing output of a smoke run.
//
// A Styler is immutable once built: every method maps a status tag and a
// message to a styled string and has no side effects.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	// Width is the column count of section rules and banners.
	Width = 60
	// TokenPreview is how many token characters are shown before the ellipsis.
	TokenPreview = 50
)

// Styler turns status tags into (optionally) ANSI-styled strings.
type Styler struct {
	c *color.Color
}

// NewStyler returns a Styler that emits escape codes only when enabled is true.
func NewStyler(enabled bool) Styler {
	c := color.New()
	if enabled {
		c.Enable()
	} else {
		c.Disable()
	}
	return Styler{c: c}
}

// Stdout returns a writer for os.Stdout and whether it is a color-capable terminal.
func Stdout() (io.Writer, bool) {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return colorable.NewColorableStdout(), tty
}

// Header styles section titles and banners.
func (s Styler) Header(msg string) string { return s.c.Bold(s.c.Magenta(msg)) }

// Success prefixes msg with a check mark.
func (s Styler) Success(msg string) string { return s.c.Green("✓ " + msg) }

// Failure prefixes msg with a cross.
func (s Styler) Failure(msg string) string { return s.c.Red("✗ " + msg) }

// Step announces the call about to be made.
func (s Styler) Step(msg string) string { return s.c.Yellow(msg) }

// Key renders a "key:" caption.
func (s Styler) Key(key string) string { return s.c.Cyan(key + ":") }

// Info renders a "key: value" line.
func (s Styler) Info(key, value string) string { return s.Key(key) + " " + value }

// Label renders a bold caption.
func (s Styler) Label(msg string) string { return s.c.Bold(msg) }

// Section renders a title centered between two rules.
func (s Styler) Section(title string) string {
	rule := s.Header(strings.Repeat("=", Width))
	return fmt.Sprintf("\n%s\n%s\n%s\n", rule, s.Header(Center(title, Width)), rule)
}

// Banner renders title inside a box drawn with box characters.
func (s Styler) Banner(title string, done bool) string {
	border := strings.Repeat("═", Width)
	lines := []string{"╔" + border + "╗", "║" + Center(title, Width) + "║", "╚" + border + "╝"}
	paint := s.c.Blue
	if done {
		paint = s.c.Green
	}
	for i, l := range lines {
		lines[i] = s.c.Bold(paint(l))
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens token for display: the first TokenPreview characters
// followed by "..." when longer, unchanged otherwise.
func Truncate(token string) string {
	r := []rune(token)
	if len(r) <= TokenPreview {
		return token
	}
	return string(r[:TokenPreview]) + "..."
}

// Center pads text with spaces to width, extra space going to the right.
func Center(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}
