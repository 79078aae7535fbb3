// Package render turns a report into an abstract Frame of labelled
// rows. It decides every presentation detail (units, N/A, colour band)
// but draws nothing; see package view for the terminal backend.
package render

import (
	"fmt"
	"time"

	"github.com/luki/specc/internal/report"
)

// Band is the display classification of a row.
type Band int

const (
	// BandNone marks rows that carry no temperature.
	BandNone Band = iota
	BandUnavailable
	BandNominal
	BandElevated
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandUnavailable:
		return "unavailable"
	case BandNominal:
		return "nominal"
	case BandElevated:
		return "elevated"
	case BandCritical:
		return "critical"
	}
	return "none"
}

// Band thresholds in Celsius, inclusive upper bounds.
const (
	NominalMax  = 60.0
	ElevatedMax = 75.0
)

// NotAvailable is shown for slots without a reading.
const NotAvailable = "N/A"

// Frame is a complete screen of information.
type Frame struct {
	Title       string
	GeneratedAt time.Time
	Panels      []Panel
}

// Panel is a titled group of rows.
type Panel struct {
	Title string
	Rows  []Row
}

// Row is one label/value line.
type Row struct {
	Label string
	Value string
	Band  Band
}

// Title is the dashboard heading.
const Title = "SPECC SYSTEM MONITOR"

// Classify bands a temperature reading.
func Classify(v *float64) Band {
	switch {
	case v == nil:
		return BandUnavailable
	case *v <= NominalMax:
		return BandNominal
	case *v <= ElevatedMax:
		return BandElevated
	default:
		return BandCritical
	}
}

// FormatTemp renders a reading as "45.0°C", or N/A.
func FormatTemp(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f°C", *v)
}

var thermalLabels = map[report.Slot]string{
	report.SlotCPU:         "CPU",
	report.SlotGPU:         "GPU",
	report.SlotMotherboard: "Motherboard",
	report.SlotNVMe:        "NVMe",
}

// SlotLabel is the display name of a thermal slot.
func SlotLabel(s report.Slot) string {
	if l, ok := thermalLabels[s]; ok {
		return l
	}
	return string(s)
}

// Render builds the frame for r. It reads r only.
func Render(r report.Report) Frame {
	thermals := Panel{Title: "Thermals"}
	for _, s := range report.Slots {
		v := r.Thermals.Get(s)
		thermals.Rows = append(thermals.Rows, Row{
			Label: SlotLabel(s),
			Value: FormatTemp(v),
			Band:  Classify(v),
		})
	}

	return Frame{
		Title:       Title,
		GeneratedAt: r.Metadata.GeneratedAt,
		Panels: []Panel{
			{
				Title: "System",
				Rows: []Row{
					{Label: "Distro", Value: r.System.Distro},
					{Label: "Kernel", Value: r.System.Kernel},
					{Label: "Arch", Value: r.System.Arch},
				},
			},
			{
				Title: "Hardware",
				Rows: []Row{
					{Label: "CPU", Value: fmt.Sprintf("%s (%d cores)", r.Hardware.CPUModel, r.Hardware.Cores)},
					{Label: "Threads", Value: fmt.Sprintf("%d", r.Hardware.Threads)},
					{Label: "RAM", Value: fmt.Sprintf("%.2f GB", r.Hardware.RAMTotalGB)},
				},
			},
			thermals,
		},
	}
}
