package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const lineWidth = 70

// UI provides user interface methods. It doubles as the notice sink for
// rc file backups.
type UI struct {
	output         io.Writer
	nonInteractive bool // If true, don't prompt user for input
	// Color functions
	colorInfo    *color.Color
	colorSuccess *color.Color
	colorWarning *color.Color
	colorError   *color.Color
	colorAdded   *color.Color
	colorCyan    *color.Color
}

// New creates a new UI instance writing to stderr
func New() *UI {
	return &UI{
		output:       os.Stderr,
		colorInfo:    color.New(color.FgBlue),
		colorSuccess: color.New(color.FgGreen),
		colorWarning: color.New(color.FgYellow),
		colorError:   color.New(color.FgRed),
		colorAdded:   color.New(color.FgGreen, color.Bold),
		colorCyan:    color.New(color.FgCyan, color.Bold),
	}
}

// NewWithWriter creates a UI with custom output writer (useful for testing)
func NewWithWriter(w io.Writer) *UI {
	ui := New()
	ui.output = w
	return ui
}

// SetNonInteractive enables or disables non-interactive mode
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

// IsNonInteractive returns true if non-interactive mode is enabled
func (u *UI) IsNonInteractive() bool {
	return u.nonInteractive
}

// Info prints an info message
func (u *UI) Info(msg string) {
	u.colorInfo.Fprintf(u.output, "[INFO] %s\n", msg)
}

// Infof prints a formatted info message
func (u *UI) Infof(format string, args ...interface{}) {
	u.Info(fmt.Sprintf(format, args...))
}

// Success prints a success message
func (u *UI) Success(msg string) {
	u.colorSuccess.Fprintf(u.output, "[✓] %s\n", msg)
}

// Successf prints a formatted success message
func (u *UI) Successf(format string, args ...interface{}) {
	u.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (u *UI) Warning(msg string) {
	u.colorWarning.Fprintf(u.output, "[WARNING] %s\n", msg)
}

// Warningf prints a formatted warning message
func (u *UI) Warningf(format string, args ...interface{}) {
	u.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message
func (u *UI) Error(msg string) {
	u.colorError.Fprintf(u.output, "[ERROR] %s\n", msg)
}

// Errorf prints a formatted error message
func (u *UI) Errorf(format string, args ...interface{}) {
	u.Error(fmt.Sprintf(format, args...))
}

// Header prints a header with a box
func (u *UI) Header(title string) {
	border := strings.Repeat("=", lineWidth)

	fmt.Fprintln(u.output)
	u.colorCyan.Fprintln(u.output, border)
	u.colorCyan.Fprintf(u.output, "  %s\n", title)
	u.colorCyan.Fprintln(u.output, border)
	fmt.Fprintln(u.output)
}

// Separator prints a separator line
func (u *UI) Separator() {
	u.colorCyan.Fprintln(u.output, strings.Repeat("-", lineWidth))
}

// Print prints a plain message without formatting
func (u *UI) Print(msg string) {
	fmt.Fprintln(u.output, msg)
}

// Printf prints a formatted plain message
func (u *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(u.output, format+"\n", args...)
}

// Item prints an indented list entry with a colored status mark
func (u *UI) Item(ok bool, msg string) {
	mark := u.colorError.Sprint("✗")
	if ok {
		mark = u.colorSuccess.Sprint("✓")
	}
	fmt.Fprintf(u.output, "  %s %s\n", mark, msg)
}

// Preview prints text that is about to be inserted into a file, one "+"
// prefixed line per line of text.
func (u *UI) Preview(label, text string) {
	if text == "" {
		return
	}
	u.colorCyan.Fprintf(u.output, "  %s:\n", label)
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		u.colorAdded.Fprintf(u.output, "    + %s\n", line)
	}
}
