package renderer

import (
	"fmt"
	"testing"
)

// tagStyle wraps text in the numeric style so tests can see what was applied
func tagStyle(text string, style TextStyle) string {
	return fmt.Sprintf("<%d:%s>", style, text)
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		args []any
		want string
	}{
		{"plain", "nothing here", nil, "nothing here"},
		{"room", "You enter ROOM{%s}.", []any{"Copy Room"}, fmt.Sprintf("You enter <%d:Copy Room>.", StyleRoom)},
		{"action", "Press ACTION{e}", nil, fmt.Sprintf("Press <%d:e><%d:>", StyleActionShort, StyleAction)},
		{"two functions", "DOOR{#3} is LOCKED{#4}", nil, fmt.Sprintf("<%d:#3> is <%d:#4>", StyleDoor, StyleDoorLocked)},
		{"untranslated key", "GT{NO_SUCH_KEY}", nil, "NO_SUCH_KEY"},
		{"nested", "DENIED{GT{DOOR_LOCKED}}", nil, fmt.Sprintf("<%d:DOOR_LOCKED>", StyleDenied)},
		{"unknown function", "FOO{bar}", nil, "FOO{bar}"},
		{"percent without args", "100% sure", nil, "100% sure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatString(tagStyle, tt.msg, tt.args...); got != tt.want {
				t.Errorf("FormatString(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestApplyMarkupWithoutRenderer(t *testing.T) {
	SetRenderer(nil)
	if got := ApplyMarkup("Stage STAGE{%d}", 3); got != "Stage 3" {
		t.Errorf("ApplyMarkup() = %q, want %q", got, "Stage 3")
	}
}
