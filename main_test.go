package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luki/specc/internal/config"
	"github.com/luki/specc/internal/export"
	"github.com/luki/specc/internal/sensor"
)

type stubSource struct{ buckets sensor.Buckets }

func (stubSource) Name() string { return "stub" }

func (s stubSource) Buckets(context.Context) (sensor.Buckets, error) { return s.buckets, nil }

// testApp returns an app running in an empty directory with its log
// file at the returned path and a fixed set of sensors.
func testApp(t *testing.T) (*app, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{config.EnvConfig, config.EnvOutput, config.EnvLogLevel, config.EnvMaxRetries, config.EnvInterval, config.EnvSensorSource} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	logPath := filepath.Join(dir, "specc.log")
	t.Setenv(config.EnvLogFile, logPath)

	var stdout, stderr bytes.Buffer
	a := &app{
		stdout: &stdout,
		stderr: &stderr,
		newSource: func(string, ...string) (sensor.Source, error) {
			return stubSource{buckets: sensor.Buckets{
				"k10temp": {{Label: "Tctl", Current: 52.3}},
				"nvme":    {{Label: "Composite", Current: 38.85}},
				"acpitz":  {{Current: 16.8}},
			}}, nil
		},
		isTerminal: func() bool { return false },
		width:      func() int { return 80 },
		now:        func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
	}
	return a, &stdout, &stderr, logPath
}

func TestExportToUnwritablePath(t *testing.T) {
	a, stdout, stderr, logPath := testApp(t)
	target := filepath.Join(t.TempDir(), "no-such-dir", "report.json")

	code := a.main(context.Background(), []string{"--output", target})
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("stderr = %q, want Error: prefix", stderr.String())
	}
	if strings.Contains(stderr.String(), "goroutine") {
		t.Error("stderr contains a stack trace")
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}

	logs, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(logs), "level=ERROR") || !strings.Contains(string(logs), target) {
		t.Errorf("log missing error entry:\n%s", logs)
	}
}

func TestExportErrorPointsAtLog(t *testing.T) {
	a, _, stderr, logPath := testApp(t)
	target := filepath.Join(t.TempDir(), "no-such-dir", "report.json")

	if code := a.main(context.Background(), []string{"-o", target}); code != exitError {
		t.Fatalf("exit code = %d, want %d", code, exitError)
	}
	if !strings.Contains(stderr.String(), "Details in "+logPath) {
		t.Errorf("stderr = %q, want pointer to %s", stderr.String(), logPath)
	}
}

func TestExportWithDisconnectedSensor(t *testing.T) {
	a, _, stderr, _ := testApp(t)
	a.newSource = func(string, ...string) (sensor.Source, error) {
		return stubSource{buckets: sensor.Buckets{
			"k10temp": {{Label: "Tctl", Current: -273.2}},
			"nvme":    {{Label: "Composite", Current: 38.85}},
		}}, nil
	}
	target := filepath.Join(t.TempDir(), "report.json")

	if code := a.main(context.Background(), []string{"-o", target}); code != exitOK {
		t.Fatalf("exit code = %d, want %d; stderr = %q", code, exitOK, stderr.String())
	}
	r, err := export.Load(target)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Thermals.CPU != nil {
		t.Errorf("cpu_temp = %v, want null", *r.Thermals.CPU)
	}
	if r.Thermals.NVMe == nil || *r.Thermals.NVMe != 38.85 {
		t.Errorf("nvme_temp = %v, want 38.85", r.Thermals.NVMe)
	}
}

func TestExport(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	target := filepath.Join(t.TempDir(), "report.yaml")

	if code := a.main(context.Background(), []string{"-o", target, "--live"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), "Report written to "+target) {
		t.Errorf("stdout = %q", stdout.String())
	}

	r, err := export.Load(target)
	if err != nil {
		t.Fatal(err)
	}
	if r.Thermals.CPU == nil || *r.Thermals.CPU != 52.3 || r.Thermals.GPU != nil || r.Thermals.Motherboard != nil {
		t.Errorf("thermals = %+v", r.Thermals)
	}
	if r.Thermals.NVMe == nil || *r.Thermals.NVMe != 38.85 {
		t.Errorf("nvme = %v", r.Thermals.NVMe)
	}
}

func TestSaveUsesConfiguredPath(t *testing.T) {
	a, _, _, _ := testApp(t)
	target := filepath.Join(t.TempDir(), "configured.json")
	t.Setenv(config.EnvOutput, target)

	if code := a.main(context.Background(), []string{"--save"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestStaticFrame(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	if code := a.main(context.Background(), nil); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"SPECC SYSTEM MONITOR", "52.3°C", "38.9°C", "N/A"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
	if _, err := os.Stat("system_report.json"); !os.IsNotExist(err) {
		t.Error("static mode should not write a report")
	}
}

func TestLiveStopsOnCancel(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := a.main(ctx, []string{"--live", "--interval", "0.5"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "SPECC SYSTEM MONITOR") {
		t.Errorf("initial frame not drawn:\n%s", out)
	}
	if !strings.HasSuffix(out, "Stopped.\n") {
		t.Errorf("output should end with Stopped.:\n%s", out)
	}
}

func TestProbe(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	if code := a.main(context.Background(), []string{"--probe"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"k10temp", "CPU slot", "acpitz", "unused"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("probe missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestIntervalOutOfRangeNamesValue(t *testing.T) {
	for in, want := range map[string]string{
		"1e-12": "--interval: interval 1e-12s is shorter than a nanosecond",
		"1e12":  "--interval: interval 1e+12s is too long",
	} {
		a, _, stderr, _ := testApp(t)
		if code := a.main(context.Background(), []string{"--live", "--interval", in}); code != exitUsage {
			t.Errorf("--interval %s: exit code = %d, want %d", in, code, exitUsage)
		}
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("--interval %s: stderr = %q", in, stderr.String())
		}
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--fahrenheit"}},
		{"positional argument", []string{"report.json"}},
		{"zero interval", []string{"--live", "--interval", "0"}},
		{"sub-nanosecond interval", []string{"--live", "--interval", "1e-12"}},
		{"overflowing interval", []string{"--live", "--interval", "1e12"}},
		{"unknown source", []string{"--source", "ipmi"}},
		{"missing config", []string{"--config", "nope.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, stderr, _ := testApp(t)
			if code := a.main(context.Background(), tt.args); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			if !strings.HasPrefix(stderr.String(), "Error: ") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestVersionAndHelp(t *testing.T) {
	a, stdout, _, _ := testApp(t)
	if code := a.main(context.Background(), []string{"--version"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if stdout.String() != "specc dev\n" {
		t.Errorf("version output = %q", stdout.String())
	}

	stdout.Reset()
	if code := a.main(context.Background(), []string{"-h"}); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Usage:", "--output", "--live", "--interval"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}
