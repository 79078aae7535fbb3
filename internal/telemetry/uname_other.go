//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package telemetry

import "github.com/shirou/gopsutil/v3/host"

func uname() (release, machine string, err error) {
	release, err = host.KernelVersion()
	if err != nil {
		return "", "", err
	}
	machine, err = host.KernelArch()
	return release, machine, err
}
