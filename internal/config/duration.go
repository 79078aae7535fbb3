package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that config files and the environment
// may give either as seconds ("1.5", 2) or as a Go duration ("750ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Seconds builds a Duration from fractional seconds. Values that are
// not finite, overflow a time.Duration, or are positive but round down
// to zero are rejected.
func Seconds(s float64) (Duration, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("interval %v is not a number of seconds", s)
	}
	ns := s * float64(time.Second)
	if ns >= math.MaxInt64 || ns <= math.MinInt64 {
		return 0, fmt.Errorf("interval %vs is too long", s)
	}
	d := Duration(ns)
	if s > 0 && d <= 0 {
		return 0, fmt.Errorf("interval %vs is shorter than a nanosecond", s)
	}
	return d, nil
}

// ParseInterval parses seconds or a Go duration string.
func ParseInterval(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return Seconds(secs)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: want seconds or a duration like 500ms", s)
	}
	return Duration(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: interval must be a scalar", node.Line)
	}
	v, err := ParseInterval(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		secs, err := Seconds(v)
		if err != nil {
			return err
		}
		*d = secs
	case string:
		parsed, err := ParseInterval(v)
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("interval must be a number of seconds or a duration string")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
