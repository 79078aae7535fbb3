// specc samples the host's OS identity, CPU and memory inventory and
// thermal sensors, then writes them as a JSON or YAML report, draws
// them once in the terminal, or keeps a live dashboard refreshing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/luki/specc/internal/config"
	"github.com/luki/specc/internal/export"
	"github.com/luki/specc/internal/live"
	"github.com/luki/specc/internal/logging"
	"github.com/luki/specc/internal/render"
	"github.com/luki/specc/internal/report"
	"github.com/luki/specc/internal/sensor"
	"github.com/luki/specc/internal/telemetry"
	"github.com/luki/specc/internal/view"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().main(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// app carries the process boundary so tests can replace it.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	newSource  func(kind string, known ...string) (sensor.Source, error)
	isTerminal func() bool
	width      func() int
	now        func() time.Time
}

func newApp() *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newSource:  sensor.New,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		width: func() int {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				return w
			}
			return 80
		},
		now: time.Now,
	}
}

// options are the parsed command-line flags.
type options struct {
	output     string
	save       bool
	live       bool
	interval   float64
	configPath string
	source     string
	probe      bool
	noColor    bool
	version    bool
	help       bool

	intervalSet bool
}

func (a *app) parseFlags(args []string) (*options, *pflag.FlagSet, error) {
	var o options
	flagSet := pflag.NewFlagSet("specc", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&o.output, "output", "o", "", "write a one-shot report to this path (.json, .yaml or .yml) and exit")
	flagSet.BoolVarP(&o.save, "save", "s", false, "write a one-shot report to the configured output path and exit")
	flagSet.BoolVarP(&o.live, "live", "l", false, "keep a live dashboard refreshing until interrupted")
	flagSet.Float64Var(&o.interval, "interval", 0, "live refresh interval in seconds (default from config, 1)")
	flagSet.StringVar(&o.configPath, "config", "", "config file, YAML or JSONC (default $"+config.EnvConfig+")")
	flagSet.StringVar(&o.source, "source", "", "sensor source: auto, hwmon, lmsensors or gopsutil")
	flagSet.BoolVar(&o.probe, "probe", false, "list every raw sensor bucket and the slot it feeds, then exit")
	flagSet.BoolVar(&o.noColor, "no-color", false, "disable colors")
	flagSet.BoolVar(&o.version, "version", false, "print the version and exit")
	flagSet.BoolVarP(&o.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return nil, flagSet, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, flagSet, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	o.intervalSet = flagSet.Changed("interval")
	return &o, flagSet, nil
}

// main runs specc and returns the process exit code.
func (a *app) main(ctx context.Context, args []string) int {
	defer logging.Close()

	opts, flagSet, err := a.parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) || (err == nil && opts.help) {
		a.printHelp(flagSet)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\nRun 'specc --help' for usage.\n", err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintf(a.stdout, "specc %s\n", version)
		return exitOK
	}

	cfg, err := a.loadConfig(opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}

	logger := a.setupLogging(cfg)
	logger.Debug("starting", "version", version, "source", cfg.SensorSource)

	src, err := a.newSource(cfg.SensorSource, telemetry.KnownBuckets()...)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}
	reader := telemetry.NewReader(src, logger)

	if opts.noColor {
		view.DisableColor()
	}

	switch {
	case opts.probe:
		return a.runProbe(ctx, src, logger)
	case opts.output != "" || opts.save:
		path := opts.output
		if path == "" {
			path = cfg.OutputPath
		}
		return a.runExport(ctx, reader, path, logger)
	case opts.live:
		return a.runLive(ctx, reader, cfg.SamplingInterval.Std(), logger)
	default:
		r := report.Assemble(ctx, reader, a.now)
		fmt.Fprintln(a.stdout, view.Draw(render.Render(r), a.width()))
		return exitOK
	}
}

// loadConfig layers the command-line flags over config.Load.
func (a *app) loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.intervalSet {
		if opts.interval <= 0 {
			return config.Config{}, fmt.Errorf("--interval must be positive, got %v", opts.interval)
		}
		d, err := config.Seconds(opts.interval)
		if err != nil {
			return config.Config{}, fmt.Errorf("--interval: %w", err)
		}
		cfg.SamplingInterval = d
	}
	if opts.source != "" {
		cfg.SensorSource = opts.source
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupLogging opens the log file. Failing to do so is reported but
// not fatal; diagnostics are then discarded.
func (a *app) setupLogging(cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger, err := logging.Setup(cfg.LogPath, level)
	if err != nil {
		fmt.Fprintf(a.stderr, "warning: diagnostics disabled: %v\n", err)
		return logging.Default()
	}
	return logger
}

func (a *app) runProbe(ctx context.Context, src sensor.Source, logger *slog.Logger) int {
	buckets, err := src.Buckets(ctx)
	if err != nil {
		logger.Warn("probe failed", "source", src.Name(), "error", err)
		fmt.Fprintf(a.stderr, "warning: %v\n", err)
	}
	f := render.Probe(src.Name(), buckets, telemetry.Claims(buckets), a.now())
	fmt.Fprintln(a.stdout, view.Draw(f, a.width()))
	return exitOK
}

func (a *app) runExport(ctx context.Context, reader report.Reader, path string, logger *slog.Logger) int {
	r := report.Assemble(ctx, reader, a.now)
	if err := export.Export(r, path); err != nil {
		logger.Error("file system error", "path", path, "error", err)
		a.fail(err)
		return exitError
	}
	logger.Info("report generated", "path", path, "thermals", r.Thermals.Available())
	fmt.Fprintf(a.stdout, "Report written to %s\n", path)
	return exitOK
}

func (a *app) runLive(ctx context.Context, reader report.Reader, interval time.Duration, logger *slog.Logger) int {
	var err error
	if a.isTerminal() {
		err = a.runDashboard(ctx, reader, interval, logger)
	} else {
		var ctrl *live.Controller
		ctrl, err = live.New(reader, view.NewWriterDisplay(a.stdout, a.width()), interval, live.WithLogger(logger))
		if err == nil {
			err = ctrl.Run(ctx)
		}
	}
	if err != nil {
		logger.Error("live mode failed", "error", err)
		a.fail(err)
		return exitError
	}
	fmt.Fprintln(a.stdout, "Stopped.")
	return exitOK
}

// runDashboard runs the bubbletea dashboard next to the sampling loop.
// Whichever stops first stops the other.
func (a *app) runDashboard(ctx context.Context, reader report.Reader, interval time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(view.NewDashboard(), tea.WithAltScreen(), tea.WithContext(ctx))
	ctrl, err := live.New(reader, view.NewProgramDisplay(program), interval, live.WithLogger(logger))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	return g.Wait()
}

// fail reports a runtime error and points at the diagnostic log.
func (a *app) fail(err error) {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	if p := logging.Path(); p != "" {
		fmt.Fprintf(a.stderr, "Details in %s\n", p)
	}
}

func (a *app) printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(a.stdout, `specc: host telemetry snapshot.

Samples OS identity, CPU and memory inventory and thermal sensors
(CPU, GPU, motherboard, NVMe). Without flags, draws one snapshot and
exits.

Usage:
  specc [flags]

Examples:
  # Draw one snapshot
  specc

  # Write a report and exit
  specc --output report.json
  specc -o report.yaml

  # Live dashboard, refreshing every half second
  specc --live --interval 0.5

  # Show which raw sensors exist and which slot each feeds
  specc --probe

Flags:
`)
	flagSet.SetOutput(a.stdout)
	flagSet.PrintDefaults()
}
