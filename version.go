package simt

import (
	"runtime/debug"
)

const root = "github.com/strided/simt"

// Version returns the module version and checksum. The returned values
// are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, m := range b.Deps {
		if m.Path == root {
			return m.Version, m.Sum
		}
	}
	return "", ""
}
