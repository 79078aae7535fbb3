package render

import (
	"reflect"
	"testing"
	"time"

	"github.com/luki/specc/internal/report"
	"github.com/luki/specc/internal/sensor"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    *float64
		want Band
	}{
		{"absent", nil, BandUnavailable},
		{"at nominal bound", report.Celsius(60.0), BandNominal},
		{"just above nominal", report.Celsius(60.1), BandElevated},
		{"at elevated bound", report.Celsius(75.0), BandElevated},
		{"just above elevated", report.Celsius(75.1), BandCritical},
		{"cold", report.Celsius(-10), BandNominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.v); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTemp(t *testing.T) {
	if got := FormatTemp(nil); got != "N/A" {
		t.Errorf("FormatTemp(nil) = %q", got)
	}
	if got := FormatTemp(report.Celsius(49.625)); got != "49.6°C" {
		t.Errorf("FormatTemp(49.625) = %q", got)
	}
}

func sample() report.Report {
	return report.Report{
		Metadata: report.Metadata{GeneratedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), Unit: report.Unit, SchemaVersion: report.SchemaVersion},
		System:   report.System{Distro: "Fedora Linux 41", Kernel: "6.11.4-301.fc41.x86_64", Arch: "x86_64"},
		Thermals: report.Thermals{CPU: report.Celsius(80.4), Motherboard: report.Celsius(33), NVMe: report.Celsius(61)},
		Hardware: report.Hardware{CPUModel: "Intel(R) Core(TM) i7-9700K", Cores: 8, Threads: 8, RAMTotalGB: 15.5},
	}
}

func TestRender(t *testing.T) {
	f := Render(sample())

	if f.Title != Title || !f.GeneratedAt.Equal(sample().Metadata.GeneratedAt) {
		t.Errorf("frame header = %q %v", f.Title, f.GeneratedAt)
	}
	if len(f.Panels) != 3 {
		t.Fatalf("panels = %d, want 3", len(f.Panels))
	}

	hw := f.Panels[1]
	if hw.Rows[0].Value != "Intel(R) Core(TM) i7-9700K (8 cores)" || hw.Rows[2].Value != "15.50 GB" {
		t.Errorf("hardware rows = %+v", hw.Rows)
	}

	want := []Row{
		{Label: "CPU", Value: "80.4°C", Band: BandCritical},
		{Label: "GPU", Value: "N/A", Band: BandUnavailable},
		{Label: "Motherboard", Value: "33.0°C", Band: BandNominal},
		{Label: "NVMe", Value: "61.0°C", Band: BandElevated},
	}
	if got := f.Panels[2].Rows; !reflect.DeepEqual(got, want) {
		t.Errorf("thermal rows:\n got %+v\nwant %+v", got, want)
	}
	for _, r := range f.Panels[0].Rows {
		if r.Band != BandNone {
			t.Errorf("system row %q has band %v", r.Label, r.Band)
		}
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	r := sample()
	before := r.Clone()
	Render(r)
	Render(r)
	if !reflect.DeepEqual(r, before) {
		t.Errorf("report changed:\n got %+v\nwant %+v", r, before)
	}
}

func TestProbe(t *testing.T) {
	buckets := sensor.Buckets{
		"k10temp": {{Label: "Tctl", Current: 49.5, High: 95, HasHigh: true}},
		"acpitz":  {{Current: 27.8}},
	}
	f := Probe("hwmon", buckets, map[string]report.Slot{"k10temp": report.SlotCPU}, time.Time{})

	if len(f.Panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(f.Panels))
	}
	if f.Panels[0].Title != "ACPI Thermal  acpitz  -> unused" {
		t.Errorf("first panel title = %q", f.Panels[0].Title)
	}
	if f.Panels[0].Rows[0].Label != "temp1" {
		t.Errorf("unlabelled channel = %q, want temp1", f.Panels[0].Rows[0].Label)
	}
	if f.Panels[1].Title != "CPU (AMD)  k10temp  -> CPU slot" {
		t.Errorf("second panel title = %q", f.Panels[1].Title)
	}
	if f.Panels[1].Rows[0].Value != "49.5°C  H95" {
		t.Errorf("k10temp row = %q", f.Panels[1].Rows[0].Value)
	}

	empty := Probe("gopsutil", nil, nil, time.Time{})
	if len(empty.Panels) != 1 || empty.Panels[0].Rows[1].Band != BandUnavailable {
		t.Errorf("empty probe = %+v", empty)
	}
}
