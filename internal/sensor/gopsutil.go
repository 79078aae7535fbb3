package sensor

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Gopsutil reads temperatures through gopsutil, which covers platforms
// without a readable hwmon class. gopsutil flattens chip and label into
// one key ("coretemp_core_0"), so keys are folded back into buckets by
// matching the Known bucket names as prefixes.
type Gopsutil struct {
	// Known lists bucket names to recognise inside sensor keys. Keys
	// matching none of them become single-channel buckets of their own.
	Known []string

	read func(ctx context.Context) ([]host.TemperatureStat, error)
}

// Name implements Source.
func (Gopsutil) Name() string { return KindGopsutil }

// Buckets implements Source.
func (g Gopsutil) Buckets(ctx context.Context) (Buckets, error) {
	read := g.read
	if read == nil {
		read = host.SensorsTemperaturesWithContext
	}

	stats, err := read(ctx)
	// gopsutil reports unreadable channels as warnings next to a partial
	// result; only fail when nothing came back.
	if err != nil && len(stats) == 0 {
		return nil, err
	}

	buckets := Buckets{}
	for _, s := range stats {
		name, label := foldKey(s.SensorKey, g.Known)
		buckets.add(name, Channel{
			Label:   label,
			Current: s.Temperature,
			High:    s.High,
			Crit:    s.Critical,
			HasHigh: s.High > 0,
			HasCrit: s.Critical > 0,
		})
	}
	return buckets, nil
}

// foldKey splits a gopsutil sensor key into bucket and label using the
// longest known bucket name that prefixes it.
func foldKey(key string, known []string) (bucket, label string) {
	best := ""
	for _, k := range known {
		if (key == k || strings.HasPrefix(key, k+"_")) && len(k) > len(best) {
			best = k
		}
	}
	if best == "" {
		return key, ""
	}
	return best, strings.TrimPrefix(strings.TrimPrefix(key, best), "_")
}
