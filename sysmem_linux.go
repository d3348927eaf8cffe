//go:build linux

package simt

import (
	"golang.org/x/sys/unix"
)

// systemMemory returns total host memory in bytes via sysinfo.
func systemMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return defaultMemorySize
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
