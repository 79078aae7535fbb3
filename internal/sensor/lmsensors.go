package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LMSensors reads the lm-sensors `sensors` tool, preferring its JSON
// output and falling back to the human-readable text for older versions.
type LMSensors struct {
	// Command is the sensors binary. Empty means "sensors" on PATH.
	Command string
}

// Name implements Source.
func (LMSensors) Name() string { return KindLMSensors }

func (l LMSensors) command() string {
	if l.Command == "" {
		return "sensors"
	}
	return l.Command
}

// Buckets implements Source.
func (l LMSensors) Buckets(ctx context.Context) (Buckets, error) {
	bin := l.command()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("lm-sensors not installed: %w", err)
	}

	if out, err := exec.CommandContext(ctx, bin, "-j").Output(); err == nil {
		if b, perr := ParseJSON(out); perr == nil {
			return b, nil
		}
	}

	out, err := exec.CommandContext(ctx, bin).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", bin, err)
	}
	return ParseText(string(out)), nil
}

// ChipBucket maps an lm-sensors chip id such as "coretemp-isa-0000" or
// "gigabyte_wmi-virtual-0" to its bucket name ("coretemp",
// "gigabyte_wmi").
func ChipBucket(chip string) string {
	chip = strings.TrimSpace(chip)
	if i := strings.Index(chip, "-"); i > 0 {
		return chip[:i]
	}
	return chip
}

// ── JSON parser (primary) ────────────────────────────────────────────

var tempFieldRe = regexp.MustCompile(`^temp(\d+)_input$`)

// ParseJSON parses `sensors -j` output. Channels inside a chip are
// ordered by their tempN index so the first channel matches hwmon order.
func ParseJSON(data []byte) (Buckets, error) {
	var chips map[string]json.RawMessage
	if err := json.Unmarshal(data, &chips); err != nil {
		return nil, fmt.Errorf("parse sensors json: %w", err)
	}

	chipNames := make([]string, 0, len(chips))
	for k := range chips {
		chipNames = append(chipNames, k)
	}
	sort.Strings(chipNames)

	buckets := Buckets{}
	for _, chipName := range chipNames {
		var chip map[string]json.RawMessage
		if err := json.Unmarshal(chips[chipName], &chip); err != nil {
			continue
		}

		type indexed struct {
			index int
			ch    Channel
		}
		var found []indexed

		for label, raw := range chip {
			if label == "Adapter" {
				continue
			}
			var fields map[string]float64
			if err := json.Unmarshal(raw, &fields); err != nil {
				continue
			}

			idx := -1
			var temp float64
			for k, v := range fields {
				if m := tempFieldRe.FindStringSubmatch(k); m != nil {
					idx, _ = strconv.Atoi(m[1])
					temp = v
					break
				}
			}
			if idx < 0 || temp < -200 {
				continue
			}

			ch := Channel{Label: label, Current: temp}
			for k, v := range fields {
				if strings.HasSuffix(k, "_max") && v > 0 && v < 1000 {
					ch.High = v
					ch.HasHigh = true
				}
				if strings.HasSuffix(k, "_crit") && v > 0 && v < 1000 {
					ch.Crit = v
					ch.HasCrit = true
				}
			}
			found = append(found, indexed{index: idx, ch: ch})
		}

		sort.Slice(found, func(i, j int) bool {
			if found[i].index != found[j].index {
				return found[i].index < found[j].index
			}
			return found[i].ch.Label < found[j].ch.Label
		})
		bucket := ChipBucket(chipName)
		for _, f := range found {
			buckets.add(bucket, f.ch)
		}
	}

	return buckets, nil
}

// ── Text parser (fallback) ───────────────────────────────────────────

var (
	adapterRe  = regexp.MustCompile(`^Adapter:\s+(.+)$`)
	namedValRe = regexp.MustCompile(`(\w+)\s*=\s*([+-]?\d+\.?\d*)°C`)
	tempValRe  = regexp.MustCompile(`[+-]?(\d+\.?\d*)°C`)
)

// ParseText parses the human-readable `sensors` output.
func ParseText(output string) Buckets {
	buckets := Buckets{}
	var currentChip string

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")

		if strings.TrimSpace(line) == "" {
			continue
		}
		if adapterRe.MatchString(line) {
			continue
		}

		if strings.Contains(line, "°C") {
			idx := strings.Index(line, ":")
			if idx < 0 || currentChip == "" {
				continue
			}
			label := strings.TrimSpace(line[:idx])

			rest := line[idx+1:]
			m := tempValRe.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			temp, err := strconv.ParseFloat(m[1], 64)
			if err != nil || temp < -200 {
				continue
			}
			if strings.HasPrefix(strings.TrimSpace(tempValRe.FindString(rest)), "-") {
				temp = -temp
			}

			ch := Channel{Label: label, Current: temp}
			if high := extractNamedVal(line, "high"); high > 0 && high < 1000 {
				ch.High = high
				ch.HasHigh = true
			}
			if crit := extractNamedVal(line, "crit"); crit > 0 && crit < 1000 {
				ch.Crit = crit
				ch.HasCrit = true
			}
			// Thresholds sometimes wrap onto a continuation line.
			if i+1 < len(lines) {
				next := strings.TrimRight(lines[i+1], "\r")
				if strings.Contains(next, "crit") && !strings.Contains(next, ":") {
					if crit := extractNamedVal(next, "crit"); crit > 0 && crit < 1000 {
						ch.Crit = crit
						ch.HasCrit = true
					}
				}
			}

			buckets.add(ChipBucket(currentChip), ch)
			continue
		}

		// Chip header: non-indented line without °C or a "label:" prefix.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") && !strings.Contains(line, ":") {
			currentChip = strings.TrimSpace(line)
		}
	}

	return buckets
}

func extractNamedVal(line, name string) float64 {
	for _, m := range namedValRe.FindAllStringSubmatch(line, -1) {
		if m[1] == name {
			v, err := strconv.ParseFloat(m[2], 64)
			if err == nil && v > -200 {
				return v
			}
		}
	}
	return 0
}
