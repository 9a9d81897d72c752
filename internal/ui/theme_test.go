package ui

import "testing"

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("NoSuchTheme").Name; got != "Nightfox" {
		t.Errorf("GetTheme fallback = %q, want Nightfox", got)
	}
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Errorf("GetTheme(Kanagawa) = %q", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	start := themeOrder[0]
	current := start
	for range themeOrder {
		current = NextTheme(current)
	}
	if current != start {
		t.Errorf("theme cycle did not return to %q, got %q", start, current)
	}

	if got := NextTheme("NoSuchTheme"); got != themeOrder[0] {
		t.Errorf("NextTheme(unknown) = %q, want %q", got, themeOrder[0])
	}
}

func TestEveryThemeCoversEveryStatus(t *testing.T) {
	statuses := []string{"COMPLETED", "IN_PROGRESS", "ABANDONED"}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range statuses {
			if theme.StatusColors[status] == "" {
				t.Errorf("theme %q missing color for status %q", name, status)
			}
		}
	}
}
