package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success, matches
	colorYellow = lipgloss.Color("220") // warnings, focus
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text, dimmed nodes
)

// Shared styles.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconFocus   = "●"
)

// kindStyle colors text with a node's kind color.
func kindStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ReportError writes a command failure to w using its user-facing message.
func ReportError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errs.UserMessage(err))
}

// status prints human-oriented progress lines. It writes to the command's
// error stream so that stdout only ever carries documents and artifacts.
type status struct {
	w io.Writer
}

func statusFor(cmd *cobra.Command) status {
	return status{w: cmd.ErrOrStderr()}
}

func (s status) line(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(s.w, icon.Render(glyph)+" "+msg)
}

func (s status) success(format string, args ...any) {
	s.line(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func (s status) warning(format string, args ...any) {
	s.line(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (s status) info(format string, args ...any) {
	s.line(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (s status) detail(format string, args ...any) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (s status) file(path string) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func (s status) keyValue(key, value string) {
	fmt.Fprintln(s.w, "  "+styleKey.Render(key)+" "+StyleValue.Render(value))
}

// stats prints the size of a document graph on one line, ending with
// whether the layout came from the cache.
func (s status) stats(nodes, edges, depth int, cached bool) {
	parts := []string{plural(nodes, "node")}
	if edges > 0 {
		parts = append(parts, plural(edges, "edge"))
	}
	parts = append(parts, fmt.Sprintf("depth %d", depth))

	origin := styleComputed.Render("fresh")
	if cached {
		origin = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(s.w, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+origin)
}

func (s status) nextStep(description, command string) {
	fmt.Fprintln(s.w, StyleDim.Render(description+":")+" "+styleCommand.Render(command))
}
