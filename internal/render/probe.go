package render

import (
	"fmt"
	"time"

	"github.com/luki/specc/internal/report"
	"github.com/luki/specc/internal/sensor"
)

// Probe builds a diagnostic frame listing every raw bucket, one panel
// per bucket. claims maps a bucket name to the slot it feeds; buckets
// without a claim are shown as unused.
func Probe(source string, buckets sensor.Buckets, claims map[string]report.Slot, at time.Time) Frame {
	f := Frame{Title: "SPECC SENSOR PROBE", GeneratedAt: at}

	if len(buckets) == 0 {
		f.Panels = append(f.Panels, Panel{
			Title: "No sensors",
			Rows:  []Row{{Label: "Source", Value: source}, {Label: "Buckets", Value: "none found", Band: BandUnavailable}},
		})
		return f
	}

	for _, name := range buckets.Names() {
		feeds := "unused"
		if s, ok := claims[name]; ok {
			feeds = SlotLabel(s) + " slot"
		}
		p := Panel{
			Title: fmt.Sprintf("%s  %s  -> %s", sensor.FriendlyName(name), name, feeds),
		}
		for i, ch := range buckets[name] {
			label := ch.Label
			if label == "" {
				label = fmt.Sprintf("temp%d", i+1)
			}
			v := ch.Current
			value := FormatTemp(&v)
			if ch.HasHigh {
				value += fmt.Sprintf("  H%.0f", ch.High)
			}
			if ch.HasCrit {
				value += fmt.Sprintf("  C%.0f", ch.Crit)
			}
			p.Rows = append(p.Rows, Row{Label: label, Value: value, Band: Classify(&v)})
		}
		f.Panels = append(f.Panels, p)
	}
	return f
}
