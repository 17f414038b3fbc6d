// Package ui provides styled terminal output for plhub commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Out is where informational output is written. Tests may replace it.
var Out io.Writer = os.Stdout

// Err is where warnings and errors are written.
var Err io.Writer = os.Stderr

func Header(text string) {
	fmt.Fprintln(Out, headerStyle.Render(text))
}

func Success(format string, args ...any) {
	fmt.Fprintln(Out, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func Warn(format string, args ...any) {
	fmt.Fprintln(Err, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func Error(format string, args ...any) {
	fmt.Fprintln(Err, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func Info(format string, args ...any) {
	fmt.Fprintln(Out, fmt.Sprintf(format, args...))
}

func Tip(format string, args ...any) {
	fmt.Fprintln(Out, mutedStyle.Render("  tip: "+fmt.Sprintf(format, args...)))
}

func Bullet(format string, args ...any) {
	fmt.Fprintln(Out, "  - "+fmt.Sprintf(format, args...))
}

func Label(name, value string) {
	fmt.Fprintf(Out, "  %s %s\n", labelStyle.Render(name+":"), value)
}

func Divider() {
	fmt.Fprintln(Out, mutedStyle.Render(strings.Repeat("─", 60)))
}
