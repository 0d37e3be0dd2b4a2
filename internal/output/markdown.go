package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// Markdown renders a task body for the terminal. It falls back to the raw
// text when rendering fails.
func Markdown(body string, width int) string {
	if width <= 0 {
		width = defaultWrap
	}
	style := "dark"
	if !colorEnabled {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}
