package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRoleColors(t *testing.T) {
	th := New()
	tests := []struct {
		role string
		got  lipgloss.Color
		want string
	}{
		{"fg", th.FG(), "#d8c8e8"},
		{"muted", th.Muted(), "#6b5a82"},
		{"accent", th.Accent(), "#c73eb4"},
		{"active", th.Active(), "#e85a6b"},
		{"warning", th.Warning(), "#e89a3e"},
		{"success", th.Success(), "#7ac75a"},
	}
	for _, tt := range tests {
		if string(tt.got) != tt.want {
			t.Errorf("%s = %q, want %q", tt.role, tt.got, tt.want)
		}
	}
}
