package cmd

import (
	"testing"

	"github.com/eykd/imgdrop-go/internal/drop"
)

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pos     drop.Position
		text    string
		want    string
	}{
		{"empty document", "", drop.Position{}, "X", "X"},
		{"start of document", "abc\n", drop.Position{}, "X", "Xabc\n"},
		{"middle of line", "a\nbc\n", drop.Position{Line: 1, Character: 1}, "X", "a\nbXc\n"},
		{"end of line", "a\nbc\n", drop.Position{Line: 1, Character: 2}, "X", "a\nbcX\n"},
		{"character past end of line", "a\nbc\n", drop.Position{Line: 0, Character: 9}, "X", "aX\nbc\n"},
		{"line after trailing newline", "a\n", drop.Position{Line: 1}, "X", "a\nX"},
		{"line past end", "a\n", drop.Position{Line: 7}, "X", "a\nX"},
		{"multibyte runes", "héllo\n", drop.Position{Character: 2}, "X", "héXllo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(insertAt([]byte(tt.content), tt.pos, tt.text))
			if got != tt.want {
				t.Errorf("insertAt(%q, %+v, %q) = %q, want %q", tt.content, tt.pos, tt.text, got, tt.want)
			}
		})
	}
}
