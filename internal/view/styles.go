// Package view draws render.Frames in the terminal with lipgloss, as a
// static block of text or as a live bubbletea dashboard.
package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/luki/specc/internal/render"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorPanel    = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorValue    = lipgloss.Color("250")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// DisableColor forces plain output for every later draw.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// BandColor returns the foreground for a band.
func BandColor(b render.Band) lipgloss.Color {
	switch b {
	case render.BandNominal:
		return colorOk
	case render.BandElevated:
		return colorWarn
	case render.BandCritical:
		return colorCrit
	case render.BandUnavailable:
		return colorDim
	}
	return colorValue
}

func bandStyle(b render.Band) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(BandColor(b))
	if b == render.BandCritical {
		s = s.Bold(true)
	}
	return s
}
