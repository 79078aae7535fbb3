package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Hwmon reads temperature channels from the Linux hwmon sysfs class.
// Each hwmon device becomes a bucket named after its "name" attribute;
// devices sharing a name (two NVMe drives) append to the same bucket in
// device order. When no hwmon device exposes a temperature, thermal
// zones are read instead, keyed by zone type.
type Hwmon struct {
	// SysRoot is the sysfs mount point. Empty means "/sys".
	SysRoot string
}

// Name implements Source.
func (Hwmon) Name() string { return KindHwmon }

func (h Hwmon) root() string {
	if h.SysRoot == "" {
		return "/sys"
	}
	return h.SysRoot
}

var (
	hwmonIndexRe = regexp.MustCompile(`(\d+)$`)
	tempInputRe  = regexp.MustCompile(`^temp(\d+)_input$`)
)

// Buckets implements Source.
func (h Hwmon) Buckets(ctx context.Context) (Buckets, error) {
	classDir := filepath.Join(h.root(), "class")
	if _, err := os.Stat(classDir); err != nil {
		return nil, fmt.Errorf("sysfs unavailable: %w", err)
	}

	devices, _ := filepath.Glob(filepath.Join(classDir, "hwmon", "hwmon*"))
	sortByIndex(devices)

	buckets := Buckets{}
	for _, dir := range devices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := readSysfsString(filepath.Join(dir, "name"))
		base := dir
		if name == "" {
			// Older kernels keep attributes under device/.
			base = filepath.Join(dir, "device")
			name = readSysfsString(filepath.Join(base, "name"))
		}
		if name == "" {
			continue
		}
		for _, ch := range readTempChannels(base) {
			buckets.add(name, ch)
		}
	}

	if len(buckets) == 0 {
		return h.thermalZones(classDir), nil
	}
	return buckets, nil
}

// readTempChannels reads temp*_input files under dir ordered by their
// numeric index. Unreadable channels are skipped.
func readTempChannels(dir string) []Channel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type indexed struct {
		index  int
		prefix string
	}
	var inputs []indexed
	for _, e := range entries {
		m := tempInputRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		inputs = append(inputs, indexed{index: idx, prefix: filepath.Join(dir, "temp"+m[1])})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].index < inputs[j].index })

	var channels []Channel
	for _, in := range inputs {
		current, ok := readMilliCelsius(in.prefix + "_input")
		if !ok {
			continue
		}
		ch := Channel{
			Label:   readSysfsString(in.prefix + "_label"),
			Current: current,
		}
		if high, ok := readMilliCelsius(in.prefix + "_max"); ok && high > 0 && high < 1000 {
			ch.High = high
			ch.HasHigh = true
		}
		if crit, ok := readMilliCelsius(in.prefix + "_crit"); ok && crit > 0 && crit < 1000 {
			ch.Crit = crit
			ch.HasCrit = true
		}
		channels = append(channels, ch)
	}
	return channels
}

// thermalZones reads class/thermal/thermal_zone* as single-channel
// buckets keyed by zone type.
func (h Hwmon) thermalZones(classDir string) Buckets {
	zones, _ := filepath.Glob(filepath.Join(classDir, "thermal", "thermal_zone*"))
	sortByIndex(zones)

	buckets := Buckets{}
	for _, dir := range zones {
		kind := readSysfsString(filepath.Join(dir, "type"))
		if kind == "" {
			continue
		}
		current, ok := readMilliCelsius(filepath.Join(dir, "temp"))
		if !ok {
			continue
		}
		buckets.add(kind, Channel{Current: current})
	}
	return buckets
}

// sortByIndex orders paths like hwmon10 after hwmon9.
func sortByIndex(paths []string) {
	index := func(p string) int {
		m := hwmonIndexRe.FindStringSubmatch(filepath.Base(p))
		if m == nil {
			return -1
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	sort.SliceStable(paths, func(i, j int) bool { return index(paths[i]) < index(paths[j]) })
}

// readMilliCelsius parses a sysfs temperature attribute (millidegrees).
func readMilliCelsius(path string) (float64, bool) {
	raw := readSysfsString(path)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v / 1000.0, true
}

// readSysfsString returns the trimmed contents of a sysfs attribute, or
// "" if it cannot be read.
func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
