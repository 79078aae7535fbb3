package report

import "math"

// Slot names one of the fixed thermal readings.
type Slot string

const (
	SlotCPU         Slot = "cpu_temp"
	SlotGPU         Slot = "gpu_temp"
	SlotMotherboard Slot = "mb_temp"
	SlotNVMe        Slot = "nvme_temp"
)

// Slots lists every slot in serialized order.
var Slots = []Slot{SlotCPU, SlotGPU, SlotMotherboard, SlotNVMe}

// Thermals holds the four fixed slots. A nil slot means the sensor was
// absent or unreadable and serializes as null; slots are never omitted.
type Thermals struct {
	CPU         *float64 `json:"cpu_temp" yaml:"cpu_temp" validate:"omitempty,gt=-273.15"`
	GPU         *float64 `json:"gpu_temp" yaml:"gpu_temp" validate:"omitempty,gt=-273.15"`
	Motherboard *float64 `json:"mb_temp" yaml:"mb_temp" validate:"omitempty,gt=-273.15"`
	NVMe        *float64 `json:"nvme_temp" yaml:"nvme_temp" validate:"omitempty,gt=-273.15"`
}

// AbsoluteZero is the lowest physically possible reading in Celsius.
const AbsoluteZero = -273.15

// Plausible reports whether v can be a real temperature. Disconnected
// channels often read at or below absolute zero.
func Plausible(v float64) bool {
	return v > AbsoluteZero && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Celsius returns a pointer to v for use as a slot value.
func Celsius(v float64) *float64 { return &v }

// Get returns the value of slot s, nil when unavailable or unknown.
func (t Thermals) Get(s Slot) *float64 {
	switch s {
	case SlotCPU:
		return t.CPU
	case SlotGPU:
		return t.GPU
	case SlotMotherboard:
		return t.Motherboard
	case SlotNVMe:
		return t.NVMe
	}
	return nil
}

// Set stores v in slot s. Unknown slots are ignored.
func (t *Thermals) Set(s Slot, v *float64) {
	switch s {
	case SlotCPU:
		t.CPU = v
	case SlotGPU:
		t.GPU = v
	case SlotMotherboard:
		t.Motherboard = v
	case SlotNVMe:
		t.NVMe = v
	}
}

// Clone copies every slot value into fresh pointers.
func (t Thermals) Clone() Thermals {
	var out Thermals
	for _, s := range Slots {
		if v := t.Get(s); v != nil {
			out.Set(s, Celsius(*v))
		}
	}
	return out
}

// Available counts the slots holding a reading.
func (t Thermals) Available() int {
	n := 0
	for _, s := range Slots {
		if t.Get(s) != nil {
			n++
		}
	}
	return n
}
