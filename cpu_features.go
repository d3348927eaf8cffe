package simt

import (
	"golang.org/x/sys/cpu"
)

// hostFeatures describes the SIMD capability of the host executing the
// kernels, surfaced through Device.
type hostFeatures struct {
	name  string
	lanes int // float32 lanes per vector register
}

// detectHost inspects the host CPU and reports its widest float32
// vector width.
func detectHost() hostFeatures {
	switch {
	case cpu.X86.HasAVX512F:
		return hostFeatures{name: "CPU (AVX-512)", lanes: 16}
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		return hostFeatures{name: "CPU (AVX2+FMA)", lanes: 8}
	case cpu.X86.HasAVX:
		return hostFeatures{name: "CPU (AVX)", lanes: 8}
	case cpu.X86.HasSSE41 || cpu.X86.HasSSE42:
		return hostFeatures{name: "CPU (SSE4)", lanes: 4}
	case cpu.ARM64.HasASIMD:
		return hostFeatures{name: "CPU (NEON)", lanes: 4}
	default:
		return hostFeatures{name: "CPU", lanes: 1}
	}
}
