package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Default palette colors.
const (
	ColorTitle = "#1DB954"
	ColorOK    = "#04B575"
	ColorErr   = "#FF0000"
	ColorWarn  = "#FFA500"
	ColorHelp  = "#626262"
)

// Status marks prefixed to console messages.
const (
	MarkOK    = "✓"
	MarkWarn  = "⚠"
	MarkErr   = "✗"
	MarkArrow = "→"
)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
//
// Styles are bound to the renderer of the output they are written to, so colors are dropped when
// that output is not a terminal.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette creates the default palette for w.
func NewPalette(w io.Writer) *Palette {
	return NewPaletteWith(lipgloss.NewRenderer(w), ColorTitle, ColorOK, ColorErr, ColorWarn, ColorHelp)
}

// NewPaletteWith builds a palette from explicit colors.
func NewPaletteWith(r *lipgloss.Renderer, t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(r, t),
		ok:    NewBold(r, s),
		err:   NewBold(r, e),
		warn:  NewStyle(r, w),
		help:  NewEm(r, h),
	}
}

func NewStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Bold(true)
}

func NewEm(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return NewStyle(r, fg).Italic(true)
}

// Title renders a heading.
func (p *Palette) Title(s string) string { return p.title.Render(s) }

// Help renders a hint.
func (p *Palette) Help(s string) string { return p.help.Render(s) }

// OK renders s prefixed with the success mark.
func (p *Palette) OK(s string) string { return p.ok.Render(MarkOK) + " " + s }

// Warn renders s prefixed with the warning mark.
func (p *Palette) Warn(s string) string { return p.warn.Render(MarkWarn+" "+s) }

// Err renders s prefixed with the failure mark.
func (p *Palette) Err(s string) string { return p.err.Render(MarkErr) + " " + s }

// Step renders s prefixed with an arrow.
func (p *Palette) Step(s string) string { return MarkArrow + " " + s }
