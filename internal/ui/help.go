package ui

import (
	"strings"
)

type helpItem struct {
	key  string
	desc string
}

type helpSection struct {
	title string
	items []helpItem
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"h/l", "Previous/next page"},
				{"enter", "Open project detail"},
				{"esc", "Back, or clear filters"},
			},
		},
		{
			title: "Gallery",
			items: []helpItem{
				{"/", "Search"},
				{"s", "Cycle sort order"},
				{"f", "Cycle status filter"},
				{"c", "Cycle category filter"},
				{"L", "Liked projects only"},
			},
		},
		{
			title: "Actions",
			items: []helpItem{
				{"space/b", "Like or unlike"},
				{"r", "Refresh from server"},
				{"d", "Delete project (admin)"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("  vitrine keys"))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(styles.AccentText.Render("  " + section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString("    ")
			b.WriteString(styles.Text.Render(padRight(item.key, 10)))
			b.WriteString(styles.MutedText.Render(item.desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.MutedText.Render("  Press any key to close."))

	return b.String()
}
