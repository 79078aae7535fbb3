package sensor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source kinds accepted by New.
const (
	KindAuto      = "auto"
	KindHwmon     = "hwmon"
	KindLMSensors = "lmsensors"
	KindGopsutil  = "gopsutil"
)

// Source produces the raw bucket mapping for the host.
type Source interface {
	Name() string
	Buckets(ctx context.Context) (Buckets, error)
}

// Kinds lists every value New accepts.
func Kinds() []string {
	return []string{KindAuto, KindHwmon, KindLMSensors, KindGopsutil}
}

// New builds the source for kind. known lists bucket names used to fold
// flat gopsutil sensor keys back into buckets.
func New(kind string, known ...string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindAuto, "":
		return Chain{Hwmon{}, LMSensors{}, Gopsutil{Known: known}}, nil
	case KindHwmon:
		return Hwmon{}, nil
	case KindLMSensors:
		return LMSensors{}, nil
	case KindGopsutil:
		return Gopsutil{Known: known}, nil
	default:
		return nil, fmt.Errorf("unknown sensor source %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
	}
}

// Chain consults sources in order. The first source that yields at
// least one bucket without error wins; later sources are not run.
type Chain []Source

// Name joins the names of the chained sources.
func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

// Buckets returns the first non-empty result. If every source fails,
// the joined errors are returned; if they all succeed empty, the result
// is an empty mapping.
func (c Chain) Buckets(ctx context.Context) (Buckets, error) {
	var errs []error
	for _, s := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := s.Buckets(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(b) > 0 {
			return b, nil
		}
	}
	if len(errs) == len(c) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return Buckets{}, nil
}
