package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// Theme maps UI roles to colors. Built-in palette; no asset files.
type Theme struct {
	palette map[string]RGB
}

func New() *Theme {
	return &Theme{palette: map[string]RGB{
		"fg":      {0xd8, 0xc8, 0xe8},
		"muted":   {0x6b, 0x5a, 0x82},
		"accent":  {0xc7, 0x3e, 0xb4},
		"active":  {0xe8, 0x5a, 0x6b},
		"warning": {0xe8, 0x9a, 0x3e},
		"success": {0x7a, 0xc7, 0x5a},
	}}
}

func (t *Theme) FG() lipgloss.Color      { return t.color("fg") }
func (t *Theme) Muted() lipgloss.Color   { return t.color("muted") }
func (t *Theme) Accent() lipgloss.Color  { return t.color("accent") }
func (t *Theme) Active() lipgloss.Color  { return t.color("active") }
func (t *Theme) Warning() lipgloss.Color { return t.color("warning") }
func (t *Theme) Success() lipgloss.Color { return t.color("success") }

func (t *Theme) color(role string) lipgloss.Color {
	c := t.palette[role]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
