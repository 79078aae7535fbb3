// Package sensor discovers raw hardware temperature sensors and groups
// their channels into buckets, one bucket per monitoring chip. It reads
// the Linux hwmon sysfs class directly, lm-sensors (JSON + text
// fallback), or gopsutil, and leaves naming decisions to the caller.
package sensor

import "sort"

// Channel is a single temperature channel reported by a chip.
type Channel struct {
	Label   string  // e.g. "Tctl", "Core 0", "Composite"; may be empty
	Current float64 // current temperature in Celsius
	High    float64 // high threshold (0 if not available)
	Crit    float64 // critical threshold (0 if not available)
	HasHigh bool
	HasCrit bool
}

// Buckets maps a bucket name (the hwmon chip name, e.g. "k10temp" or
// "nvme") to its channels in the order the OS reports them.
type Buckets map[string][]Channel

// First returns the first channel of the named bucket.
func (b Buckets) First(name string) (Channel, bool) {
	channels := b[name]
	if len(channels) == 0 {
		return Channel{}, false
	}
	return channels[0], true
}

// Names returns the bucket names in sorted order.
func (b Buckets) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b Buckets) add(name string, ch Channel) {
	b[name] = append(b[name], ch)
}
