package simt

// Launch configuration policy. Every host entry point derives its
// grid/block shape here; kernel bodies stay correct for any shape via
// grid-stride loops, so these choices only affect performance.

// elementwiseConfig picks a 1D shape for a kernel over n independent
// elements. The block is capped at MaxThreadsPerBlock and never empty,
// so element 0 is covered even for tiny n; the grid is rounded up so
// blocks*threads >= n.
func elementwiseConfig(n int) (grid, block Dim3) {
	threads := n
	if threads < 1 {
		threads = 1
	}
	if threads > MaxThreadsPerBlock {
		threads = MaxThreadsPerBlock
	}
	blocks := (n + threads - 1) / threads
	if blocks < 1 {
		blocks = 1
	}
	return Dim3{X: blocks, Y: 1, Z: 1}, Dim3{X: threads, Y: 1, Z: 1}
}

// reduceConfig picks the shape for a cooperative reduction with
// `targets` independent outputs, each summing `span` values: exactly
// one block per target, so a single intra-block barrier domain covers
// the whole reduction and no cross-block combination is needed. Spans
// beyond the thread cap are handled by the accumulate phase's
// grid-stride loop.
func reduceConfig(targets, span int) (grid, block Dim3) {
	threads := span
	if threads < 1 {
		threads = 1
	}
	if threads > MaxThreadsPerBlock {
		threads = MaxThreadsPerBlock
	}
	return Dim3{X: targets, Y: 1, Z: 1}, Dim3{X: threads, Y: 1, Z: 1}
}

// broadcastConfig picks a 2D shape covering a rows×cols matrix with
// square blocks. Both grid axes stride independently in the kernel, so
// under-covering grids are still correct.
func broadcastConfig(rows, cols int) (grid, block Dim3) {
	block = Dim3{X: Broadcast2DBlockEdge, Y: Broadcast2DBlockEdge, Z: 1}
	gx := (cols + block.X - 1) / block.X
	gy := (rows + block.Y - 1) / block.Y
	if gx < 1 {
		gx = 1
	}
	if gy < 1 {
		gy = 1
	}
	return Dim3{X: gx, Y: gy, Z: 1}, block
}
