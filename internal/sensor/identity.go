package sensor

import "strings"

// chipIdentityMap maps bucket name prefixes to friendly component names.
// Longer prefixes must precede shorter ones that would shadow them.
var chipIdentityMap = []struct {
	prefix string
	name   string
}{
	{"coretemp", "CPU (Intel)"},
	{"k10temp", "CPU (AMD)"},
	{"zenpower", "CPU (AMD)"},
	{"cpu_thermal", "CPU (SoC)"},
	{"cpu-thermal", "CPU (SoC)"},
	{"x86_pkg_temp", "CPU package"},
	{"amdgpu", "GPU (AMD)"},
	{"radeon", "GPU (AMD)"},
	{"nouveau", "GPU (NVIDIA)"},
	{"nvidia", "GPU (NVIDIA)"},
	{"i915", "GPU (Intel)"},
	{"nvme", "NVMe SSD"},
	{"drivetemp", "HDD/SSD"},
	{"iwlwifi", "WiFi"},
	{"ath", "WiFi"},
	{"mt7", "WiFi"},
	{"rtw", "WiFi"},
	{"pch", "PCH (Chipset)"},
	{"acpitz", "ACPI Thermal"},
	{"gigabyte_wmi", "Motherboard"},
	{"asus_wmi", "Motherboard"},
	{"it87", "Motherboard"},
	{"nct", "Motherboard"},
	{"w83", "Motherboard"},
	{"f71", "Motherboard"},
	{"thinkpad", "Laptop EC"},
	{"dell", "Laptop EC"},
	{"bat", "Battery"},
}

// FriendlyName returns a human-readable component name for a bucket or
// chip id.
func FriendlyName(chip string) string {
	lower := strings.ToLower(chip)
	for _, entry := range chipIdentityMap {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.name
		}
	}
	return "Sensor"
}
