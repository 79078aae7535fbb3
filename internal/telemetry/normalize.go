package telemetry

import (
	"github.com/luki/specc/internal/report"
	"github.com/luki/specc/internal/sensor"
)

// slotCandidates lists, per slot, the bucket names consulted in
// priority order. The first bucket that exists with at least one
// channel wins; buckets are never merged or averaged.
var slotCandidates = map[report.Slot][]string{
	report.SlotCPU:         {"k10temp", "coretemp", "cpu_thermal"},
	report.SlotGPU:         nil,
	report.SlotMotherboard: {"gigabyte_wmi"},
	report.SlotNVMe:        {"nvme"},
}

// Candidates returns the ordered bucket names consulted for slot s.
func Candidates(s report.Slot) []string {
	return append([]string(nil), slotCandidates[s]...)
}

// KnownBuckets returns every candidate bucket name across all slots.
func KnownBuckets() []string {
	var names []string
	for _, s := range report.Slots {
		names = append(names, slotCandidates[s]...)
	}
	return names
}

// Normalize maps raw buckets onto the fixed thermal slots. Slots with
// no matching bucket, or whose winning channel holds an impossible
// reading, are nil. Readings are raw Celsius, unrounded.
func Normalize(buckets sensor.Buckets) report.Thermals {
	var t report.Thermals
	for _, s := range report.Slots {
		if _, ch, ok := pick(buckets, s); ok && report.Plausible(ch.Current) {
			t.Set(s, report.Celsius(ch.Current))
		}
	}
	return t
}

// Claims reports which slot each winning bucket feeds. Buckets that
// lost to a higher-priority candidate or match no slot are absent.
func Claims(buckets sensor.Buckets) map[string]report.Slot {
	claims := make(map[string]report.Slot)
	for _, s := range report.Slots {
		if name, _, ok := pick(buckets, s); ok {
			claims[name] = s
		}
	}
	return claims
}

func pick(buckets sensor.Buckets, s report.Slot) (string, sensor.Channel, bool) {
	for _, name := range slotCandidates[s] {
		if ch, ok := buckets.First(name); ok {
			return name, ch, true
		}
	}
	return "", sensor.Channel{}, false
}
