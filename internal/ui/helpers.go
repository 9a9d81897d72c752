package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens s to at most width cells, appending an ellipsis when
// something was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// padRight pads s with spaces to exactly width cells, truncating if needed.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// statusLabel converts an API status constant to display form.
func statusLabel(status string) string {
	switch status {
	case "COMPLETED":
		return "completed"
	case "IN_PROGRESS":
		return "in progress"
	case "ABANDONED":
		return "abandoned"
	}
	return strings.ToLower(status)
}

// wrap splits text into lines of at most width cells, breaking on spaces.
func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if lipgloss.Width(line)+1+lipgloss.Width(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
