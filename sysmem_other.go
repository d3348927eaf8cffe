//go:build !linux

package simt

// systemMemory returns a conservative default on platforms without a
// sysinfo call wired up.
func systemMemory() uint64 {
	return defaultMemorySize
}
