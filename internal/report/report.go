// Package report defines the host telemetry snapshot shared by the
// exporter and the renderer, and assembles it from a Reader.
package report

import (
	"context"
	"time"
)

const (
	// SchemaVersion identifies the persisted layout. 0.1.0 stored
	// thermals as display strings ("45.0°C", "N/A"); 0.2.0 stores raw
	// Celsius numbers and null.
	SchemaVersion = "0.2.0"

	// Unit is the only temperature unit a Report carries.
	Unit = "Celsius"
)

// Report is one snapshot of the host. Field order is the serialized
// order.
type Report struct {
	Metadata Metadata `json:"Metadata" yaml:"Metadata"`
	System   System   `json:"System" yaml:"System"`
	Thermals Thermals `json:"Thermals" yaml:"Thermals"`
	Hardware Hardware `json:"Hardware" yaml:"Hardware"`
}

// Metadata describes when and how a Report was produced.
type Metadata struct {
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at" validate:"required"`
	Unit          string    `json:"unit" yaml:"unit" validate:"eq=Celsius"`
	SchemaVersion string    `json:"schema_version" yaml:"schema_version" validate:"required,semver"`
}

// System is the operating system identity.
type System struct {
	Distro string `json:"distro" yaml:"distro"`
	Kernel string `json:"kernel" yaml:"kernel"`
	Arch   string `json:"arch" yaml:"arch"`
}

// Hardware is the static CPU and memory inventory.
type Hardware struct {
	CPUModel   string  `json:"cpu_model" yaml:"cpu_model"`
	Cores      int     `json:"cores" yaml:"cores" validate:"gte=0"`
	Threads    int     `json:"threads" yaml:"threads" validate:"gte=0"`
	RAMTotalGB float64 `json:"ram_total_gb" yaml:"ram_total_gb" validate:"gte=0"`
}

// Reader is the source of the three independent parts of a Report.
// Implementations never fail; unavailable values degrade to defaults.
type Reader interface {
	ReadOSIdentity(ctx context.Context) System
	ReadHardwareSpecs(ctx context.Context) Hardware
	ReadThermalData(ctx context.Context) Thermals
}

// Assemble reads every part of a Report from r and stamps it with
// now(). A nil now means time.Now.
func Assemble(ctx context.Context, r Reader, now func() time.Time) Report {
	if now == nil {
		now = time.Now
	}
	return Report{
		System:   r.ReadOSIdentity(ctx),
		Thermals: r.ReadThermalData(ctx),
		Hardware: r.ReadHardwareSpecs(ctx),
		Metadata: Metadata{
			GeneratedAt:   now(),
			Unit:          Unit,
			SchemaVersion: SchemaVersion,
		},
	}
}

// Clone returns a deep copy; the thermal pointers are not shared.
func (r Report) Clone() Report {
	r.Thermals = r.Thermals.Clone()
	return r
}
