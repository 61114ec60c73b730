package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/genresense/internal/models"
)

var (
	lightPalette = NewPalette("#7D56F4", "#04B575", "#D7263D", "#C77700", "#8A8A8A", "#1F1F1F")
	darkPalette  = NewPalette("#A78BFA", "#34D399", "#F87171", "#FBBF24", "#9CA3AF", "#F3F4F6")
)

// PaletteFor returns the stylesheet of theme.
func PaletteFor(theme models.Theme) *Palette {
	if theme == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	text   lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	modal  lipgloss.Style
}

func NewPalette(accent, s, e, w, h, fg string) *Palette {
	return &Palette{
		accent: lipgloss.Color(accent),
		title:  NewBold(accent).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		text:   NewStyle(fg),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold(accent).Padding(0, 1).Underline(true),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accent)).
			Padding(1, 2),
	}
}

// As renders s in fg.
func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

// On renders s over bg.
func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
