package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	Key    = color.New(color.FgBlue, color.Bold)
)

// Plan categories used to pick a color.
const (
	PlanIdle       = "idle"       // nothing to do
	PlanMaintain   = "maintain"   // cache-only work
	PlanCorrective = "corrective" // patcher commands will run
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// PlanColor returns the color for a plan category
func PlanColor(category string) *color.Color {
	switch category {
	case PlanIdle:
		return Success
	case PlanMaintain:
		return Info
	case PlanCorrective:
		return Warning
	default:
		return color.New(color.Reset)
	}
}

// FormatPlan formats a plan description in its category color
func FormatPlan(category, plan string) string {
	return PlanColor(category).Sprintf("[%s]", plan)
}

// FormatFlag renders name=value, green when value equals want and red otherwise
func FormatFlag(name string, value, want bool) string {
	c := Error
	if value == want {
		c = Success
	}
	return c.Sprintf("%s=%t", name, value)
}

// FormatField renders an aligned "key: value" line
func FormatField(key, value string) string {
	return Key.Sprintf("%-10s", key+":") + " " + value
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Box writes a boxed block of lines
func Box(w io.Writer, title string, lines []string) {
	fmt.Fprintln(w)
	Header.Fprintln(w, "┌─ "+title+" ─")
	fmt.Fprintln(w, "│")
	for _, l := range lines {
		fmt.Fprintln(w, "│  "+l)
	}
	fmt.Fprintln(w, "│")
	Header.Fprintln(w, "└────────────────")
	fmt.Fprintln(w)
}
