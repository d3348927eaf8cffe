// Package simt configuration constants
package simt

// Thread and block dimensions
const (
	// Maximum threads per block, matching the CUDA hardware limit.
	MaxThreadsPerBlock = 1024

	// Default block size for elementwise kernels.
	DefaultBlockSize = 256

	// Block edge for 2D broadcast launches (16×16 = 256 threads).
	Broadcast2DBlockEdge = 16
)

// Stream parameters
const (
	// Task queue depth per stream.
	streamQueueDepth = 1000
)

// Memory pool parameters
const (
	// Memory alignment for allocations (cache line).
	MemoryAlignment = 64

	// Fallback device memory size when the host cannot report one.
	defaultMemorySize = 16 * 1024 * 1024 * 1024
)

// Numerical constants
const (
	// Smallest positive normal float32 (C's FLT_MIN). Cross-entropy
	// clamps probabilities here before taking the log.
	minNormalFloat32 = 1.1754943508222875e-38

	// Machine epsilon for float32.
	Float32Epsilon = 1.192092896e-07
)
