// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the appropriate format based on flags and environment.
// Default is table when no explicit format is set.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch os.Getenv("PIVOTBOARD_OUTPUT") {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}
	return FormatTable
}

// colorEnabled tracks whether styles render ANSI sequences.
var colorEnabled = true

// SetupColor picks the color profile of w. Color is switched off when
// noColor is set, NO_COLOR is present, or w is not a color terminal.
func SetupColor(w io.Writer, noColor bool) {
	profile := termenv.NewOutput(w).EnvColorProfile()
	if noColor || profile == termenv.Ascii {
		DisableColor()
		return
	}
	lipgloss.SetColorProfile(profile)
}
