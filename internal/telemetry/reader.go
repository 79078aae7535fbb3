// Package telemetry reads OS identity, hardware inventory and thermal
// readings for a report. Every read degrades to defaults instead of
// failing; problems are logged, never returned.
package telemetry

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/luki/specc/internal/report"
	"github.com/luki/specc/internal/sensor"
)

// Unknown is the fallback for identity fields that cannot be read.
const Unknown = "Unknown"

const bytesPerGiB = 1 << 30

// Reader implements report.Reader on top of a sensor.Source and
// gopsutil. It is safe for concurrent use.
type Reader struct {
	source    sensor.Source
	logger    *slog.Logger
	osRelease string

	uname     func() (release, machine string, err error)
	platform  func(ctx context.Context) (platform, family, version string, err error)
	cpuCounts func(ctx context.Context, logical bool) (int, error)
	cpuInfo   func(ctx context.Context) ([]cpu.InfoStat, error)
	memory    func(ctx context.Context) (*mem.VirtualMemoryStat, error)

	// Availability state, so a live session logs transitions rather
	// than one warning per tick.
	mu            sync.Mutex
	missing       map[report.Slot]bool
	sourceFailing bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithOSRelease overrides the os-release file path.
func WithOSRelease(path string) Option {
	return func(r *Reader) { r.osRelease = path }
}

// WithUname overrides the uname(2) lookup.
func WithUname(fn func() (release, machine string, err error)) Option {
	return func(r *Reader) { r.uname = fn }
}

// WithPlatform overrides the distribution lookup used when os-release
// has no PRETTY_NAME.
func WithPlatform(fn func(ctx context.Context) (platform, family, version string, err error)) Option {
	return func(r *Reader) { r.platform = fn }
}

// WithCPU overrides the CPU count and model queries.
func WithCPU(counts func(ctx context.Context, logical bool) (int, error), info func(ctx context.Context) ([]cpu.InfoStat, error)) Option {
	return func(r *Reader) {
		r.cpuCounts = counts
		r.cpuInfo = info
	}
}

// WithMemory overrides the memory query.
func WithMemory(fn func(ctx context.Context) (*mem.VirtualMemoryStat, error)) Option {
	return func(r *Reader) { r.memory = fn }
}

// NewReader returns a Reader for source. A nil logger discards output.
func NewReader(source sensor.Source, logger *slog.Logger, opts ...Option) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Reader{
		source:    source,
		logger:    logger,
		osRelease: "/etc/os-release",
		uname:     uname,
		platform:  host.PlatformInformationWithContext,
		cpuCounts: cpu.CountsWithContext,
		cpuInfo:   cpu.InfoWithContext,
		memory:    mem.VirtualMemoryWithContext,
		missing:   make(map[report.Slot]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ── OS identity ──────────────────────────────────────────────────────

// ReadOSIdentity implements report.Reader.
func (r *Reader) ReadOSIdentity(ctx context.Context) report.System {
	sys := report.System{Distro: Unknown, Kernel: Unknown, Arch: Unknown}

	release, machine, err := r.uname()
	if err != nil {
		r.logger.Warn("os identity unavailable", "field", "kernel", "error", err)
	} else {
		sys.Kernel = orUnknown(release)
		sys.Arch = orUnknown(machine)
	}

	if distro := readPrettyName(r.osRelease); distro != "" {
		sys.Distro = distro
		return sys
	}

	platform, _, version, err := r.platform(ctx)
	if err != nil || platform == "" {
		r.logger.Warn("os identity unavailable", "field", "distro", "error", err)
		return sys
	}
	sys.Distro = strings.TrimSpace(platform + " " + version)
	return sys
}

// readPrettyName returns PRETTY_NAME from an os-release file, or "".
func readPrettyName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unknown
	}
	return s
}

// ── Hardware ─────────────────────────────────────────────────────────

// ReadHardwareSpecs implements report.Reader. A failed count or memory
// query degrades the whole record; a missing CPU model does not.
func (r *Reader) ReadHardwareSpecs(ctx context.Context) report.Hardware {
	degraded := report.Hardware{CPUModel: Unknown}

	cores, err := r.cpuCounts(ctx, false)
	if err != nil {
		r.logger.Error("hardware query failed", "query", "physical cores", "error", err)
		return degraded
	}
	threads, err := r.cpuCounts(ctx, true)
	if err != nil {
		r.logger.Error("hardware query failed", "query", "logical cores", "error", err)
		return degraded
	}
	vm, err := r.memory(ctx)
	if err != nil {
		r.logger.Error("hardware query failed", "query", "memory", "error", err)
		return degraded
	}
	if vm == nil {
		r.logger.Error("hardware query failed", "query", "memory", "error", "no memory statistics")
		return degraded
	}

	model := Unknown
	if infos, err := r.cpuInfo(ctx); err != nil {
		r.logger.Warn("cpu model unavailable", "error", err)
	} else if len(infos) > 0 {
		model = orUnknown(infos[0].ModelName)
	}

	return report.Hardware{
		CPUModel:   model,
		Cores:      cores,
		Threads:    threads,
		RAMTotalGB: math.Round(float64(vm.Total)/bytesPerGiB*100) / 100,
	}
}

// ── Thermals ─────────────────────────────────────────────────────────

// ReadThermalData implements report.Reader. A source error or panic
// degrades every slot to nil.
func (r *Reader) ReadThermalData(ctx context.Context) (t report.Thermals) {
	defer func() {
		if p := recover(); p != nil {
			r.sourceFailed(fmt.Errorf("sensor source panicked: %v", p))
			t = report.Thermals{}
		}
	}()

	buckets, err := r.Buckets(ctx)
	if err != nil {
		r.sourceFailed(err)
		return report.Thermals{}
	}
	r.sourceRecovered()

	t = Normalize(buckets)
	r.trackSlots(buckets, t)
	return t
}

// Buckets returns the raw bucket mapping from the configured source.
func (r *Reader) Buckets(ctx context.Context) (sensor.Buckets, error) {
	if r.source == nil {
		return nil, fmt.Errorf("no sensor source configured")
	}
	return r.source.Buckets(ctx)
}

func (r *Reader) sourceFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sourceFailing {
		r.logger.Warn("could not read thermal data", "source", r.sourceName(), "error", err)
	}
	r.sourceFailing = true
}

func (r *Reader) sourceRecovered() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sourceFailing {
		r.logger.Info("thermal data available again", "source", r.sourceName())
	}
	r.sourceFailing = false
}

func (r *Reader) sourceName() string {
	if r.source == nil {
		return "none"
	}
	return r.source.Name()
}

// trackSlots logs slots that became unavailable or came back. Slots
// with no candidate buckets are never reported.
func (r *Reader) trackSlots(buckets sensor.Buckets, t report.Thermals) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range report.Slots {
		candidates := Candidates(s)
		if len(candidates) == 0 {
			continue
		}
		absent := t.Get(s) == nil
		was, seen := r.missing[s]
		switch {
		case absent && (!seen || !was):
			attrs := []any{"slot", string(s), "candidates", strings.Join(candidates, ",")}
			if name, ch, ok := pick(buckets, s); ok {
				attrs = append(attrs, "bucket", name, "reading", ch.Current)
			}
			r.logger.Warn("sensor unavailable", attrs...)
		case !absent && seen && was:
			r.logger.Info("sensor available again", "slot", string(s))
		}
		r.missing[s] = absent
	}
}
