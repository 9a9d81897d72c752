package ui

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "portfolio", width: 12, want: "portfolio"},
		{name: "exact", in: "portfolio", width: 9, want: "portfolio"},
		{name: "cut", in: "portfolio", width: 5, want: "port…"},
		{name: "width one", in: "portfolio", width: 1, want: "…"},
		{name: "zero width", in: "portfolio", width: 0, want: ""},
		{name: "empty", in: "", width: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ok", 5); got != "ok   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("too long", 4); got != "too…" {
		t.Errorf("padRight truncates = %q", got)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"COMPLETED", "completed"},
		{"IN_PROGRESS", "in progress"},
		{"ABANDONED", "abandoned"},
		{"SOMETHING_NEW", "something_new"},
	}

	for _, tt := range tests {
		if got := statusLabel(tt.in); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	lines := wrap("a terminal client for a personal portfolio site", 16)
	for _, line := range lines {
		if len(line) > 16 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	rejoined := strings.Join(lines, " ")
	if rejoined != "a terminal client for a personal portfolio site" {
		t.Errorf("wrap lost words: %q", rejoined)
	}
}

func TestWrapSkipsBlankParagraphs(t *testing.T) {
	lines := wrap("first\n\nsecond", 40)
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Errorf("unexpected lines: %v", lines)
	}
}
