package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/luki/specc/internal/render"
)

const (
	minWidth = 40
	labelW   = 14
)

// Draw renders a frame as a static block of text width columns wide:
// a title bar, one bordered panel per frame panel, and a band legend.
func Draw(f render.Frame, width int) string {
	if width < minWidth {
		width = minWidth
	}

	var right []string
	if !f.GeneratedAt.IsZero() {
		right = append(right, f.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	sections := []string{titleBar(f.Title, right, width)}
	sections = append(sections, panels(f, width)...)
	sections = append(sections, footer(width, ""))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func titleBar(title string, status []string, width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render(title)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	parts := make([]string, 0, len(status))
	for _, s := range status {
		parts = append(parts, dimS.Render(s))
	}
	sep := dimS.Render(" │ ")
	right := strings.Join(parts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func panels(f render.Frame, width int) []string {
	// Width excludes the border; padding takes one more column a side.
	inner := width - 4
	valueW := inner - labelW - 1
	if valueW < 8 {
		valueW = 8
	}

	titleS := lipgloss.NewStyle().Bold(true).Foreground(colorPanel)
	labelS := lipgloss.NewStyle().Foreground(colorLabel).Width(labelW)

	out := make([]string, 0, len(f.Panels))
	for _, p := range f.Panels {
		rows := []string{titleS.Render(ansi.Truncate(p.Title, inner, "…"))}
		for _, r := range p.Rows {
			label := labelS.Render(ansi.Truncate(r.Label, labelW-1, "…"))
			value := bandStyle(r.Band).Render(ansi.Truncate(r.Value, valueW, "…"))
			rows = append(rows, label+" "+value)
		}

		out = append(out, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(width-2).
			Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	}
	return out
}

// footer draws the band legend, with keys right-aligned when given.
func footer(width int, keys string) string {
	block := "██"
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := bandStyle(render.BandNominal).Render(block) + dimS.Render(" ≤60°C ") +
		bandStyle(render.BandElevated).Render(block) + dimS.Render(" ≤75°C ") +
		bandStyle(render.BandCritical).Render(block) + dimS.Render(" hot ") +
		bandStyle(render.BandUnavailable).Render(block) + dimS.Render(" n/a")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}
