package report

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"
)

type fakeReader struct {
	thermals Thermals
	calls    map[string]int
}

func (f *fakeReader) ReadOSIdentity(context.Context) System {
	f.calls["os"]++
	return System{Distro: "Debian GNU/Linux 12 (bookworm)", Kernel: "6.1.0-18-amd64", Arch: "x86_64"}
}

func (f *fakeReader) ReadHardwareSpecs(context.Context) Hardware {
	f.calls["hw"]++
	return Hardware{CPUModel: "AMD Ryzen 7 5800X", Cores: 8, Threads: 16, RAMTotalGB: 31.27}
}

func (f *fakeReader) ReadThermalData(context.Context) Thermals {
	f.calls["thermal"]++
	return f.thermals
}

func TestAssemble(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r := &fakeReader{thermals: Thermals{CPU: Celsius(48.5)}, calls: map[string]int{}}

	got := Assemble(context.Background(), r, func() time.Time { return stamp })

	if !got.Metadata.GeneratedAt.Equal(stamp) {
		t.Errorf("GeneratedAt = %v, want %v", got.Metadata.GeneratedAt, stamp)
	}
	if got.Metadata.Unit != Unit || got.Metadata.SchemaVersion != SchemaVersion {
		t.Errorf("metadata = %+v", got.Metadata)
	}
	if got.System.Arch != "x86_64" || got.Hardware.Threads != 16 {
		t.Errorf("unexpected report: %+v", got)
	}
	if got.Thermals.CPU == nil || *got.Thermals.CPU != 48.5 || got.Thermals.GPU != nil {
		t.Errorf("thermals = %+v", got.Thermals)
	}
	for _, part := range []string{"os", "hw", "thermal"} {
		if r.calls[part] != 1 {
			t.Errorf("%s read %d times, want 1", part, r.calls[part])
		}
	}
	if err := got.Validate(); err != nil {
		t.Errorf("assembled report should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Report {
		return Report{
			Metadata: Metadata{GeneratedAt: time.Now(), Unit: Unit, SchemaVersion: SchemaVersion},
			Thermals: Thermals{CPU: Celsius(40), NVMe: Celsius(-5)},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Report)
		wantErr string
	}{
		{"valid", func(*Report) {}, ""},
		{"all thermals null", func(r *Report) { r.Thermals = Thermals{} }, ""},
		{"wrong unit", func(r *Report) { r.Metadata.Unit = "Fahrenheit" }, "Metadata.unit must be Celsius"},
		{"bad version", func(r *Report) { r.Metadata.SchemaVersion = "two" }, "Metadata.schema_version must be a semantic version"},
		{"missing timestamp", func(r *Report) { r.Metadata.GeneratedAt = time.Time{} }, "Metadata.generated_at is required"},
		{"negative cores", func(r *Report) { r.Hardware.Cores = -1 }, "Hardware.cores must be at least 0"},
		{"below absolute zero", func(r *Report) { r.Thermals.GPU = Celsius(-300) }, "Thermals.gpu_temp must be greater than -273.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestThermalsSlots(t *testing.T) {
	var th Thermals
	for i, s := range Slots {
		th.Set(s, Celsius(float64(i)))
	}
	for i, s := range Slots {
		if v := th.Get(s); v == nil || *v != float64(i) {
			t.Errorf("slot %s = %v, want %d", s, v, i)
		}
	}
	if th.Available() != 4 {
		t.Errorf("Available = %d, want 4", th.Available())
	}

	clone := th.Clone()
	*clone.CPU = 99
	if *th.CPU == 99 {
		t.Error("Clone shares slot pointers")
	}

	th.Set(SlotGPU, nil)
	if th.Available() != 3 {
		t.Errorf("Available after clearing = %d, want 3", th.Available())
	}
	if th.Get(Slot("fan_rpm")) != nil {
		t.Error("unknown slot should read as nil")
	}
}

func TestPlausible(t *testing.T) {
	for v, want := range map[float64]bool{
		-273.2: false, AbsoluteZero: false, -273.1: true, 0: true, 45.5: true,
	} {
		if got := Plausible(v); got != want {
			t.Errorf("Plausible(%v) = %v, want %v", v, got, want)
		}
	}
	if Plausible(math.NaN()) || Plausible(math.Inf(1)) {
		t.Error("NaN and Inf must not be plausible")
	}
}
