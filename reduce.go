package simt

// Reduction kernels. Sum and SumColumns run as cooperative blocks:
// phase 1 accumulates a grid-stride partial sum per thread into the
// block's shared scratch, phase 2 collapses the scratch with an
// iterative halving tree. Each launch uses exactly one block per
// reduction target, so one barrier domain covers the whole reduction
// and no cross-block combination or atomics are needed.

// treeReduce collapses shared[0:active] into shared[0].
//
// Each step replaces the active slot count with ceil(active/2): thread
// t < half adds its partner slot t+half, skipping partners past the
// active range when the count is odd. A barrier separates every step
// so reads of the previous generation finish before it is overwritten.
func treeReduce(blk *Block, t, active int) {
	for active > 1 {
		half := (active + 1) / 2
		if t < half {
			partner := t + half
			if partner < active {
				blk.Shared[t] += blk.Shared[partner]
			}
		}
		blk.Sync()
		active = half
	}
}

// Sum computes out[0] = Σ in[i] for i in [0, n).
//
// The launch is a single block; n beyond the block's thread count is
// covered by phase 1's stride loop at the cost of serial iterations
// per thread.
func Sum(n int, in, out DevicePtr, stream *Stream) error {
	x := in.Float32()
	y := out.Float32()
	grid, block := reduceConfig(1, n)
	threads := block.X

	return defaultContext.LaunchBlocks(func(tid ThreadID, blk *Block) {
		t := tid.ThreadIdx.X

		acc := float32(0)
		for i := t; i < n; i += threads {
			acc += x[i]
		}
		blk.Shared[t] = acc
		blk.Sync()

		treeReduce(blk, t, threads)

		if t == 0 {
			y[0] = blk.Shared[0]
		}
	}, grid, block, threads, stream)
}

// SumColumns computes per-column sums of a rows×cols matrix:
// out[j] = Σ in[i*stride + j] over i in [0, rows), for each column j.
// out must hold cols elements. One cooperative block is launched per
// column; threads of the block stride over the rows dimension, which
// is the strided axis, so the cooperative tree handles the combine.
func SumColumns(rows, cols, stride int, in, out DevicePtr, stream *Stream) error {
	x := in.Float32()
	y := out.Float32()
	grid, block := reduceConfig(cols, rows)
	threads := block.X

	return defaultContext.LaunchBlocks(func(tid ThreadID, blk *Block) {
		j := tid.BlockIdx.X
		t := tid.ThreadIdx.X

		acc := float32(0)
		for i := t; i < rows; i += threads {
			acc += x[i*stride+j]
		}
		blk.Shared[t] = acc
		blk.Sync()

		treeReduce(blk, t, threads)

		if t == 0 {
			y[j] = blk.Shared[0]
		}
	}, grid, block, threads, stream)
}

// SumRows computes per-row sums of a rows×cols matrix:
// out[i] = Σ in[i*stride + j] over j in [0, cols), for each row i.
// out must hold rows elements.
//
// Each row is one contiguous run read serially by one thread, so a
// plain grid-stride loop over rows suffices and no shared-memory
// reduction is needed.
func SumRows(rows, cols, stride int, in, out DevicePtr, stream *Stream) error {
	x := in.Float32()
	y := out.Float32()
	grid, block := elementwiseConfig(rows)

	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for i := tid.Global(); i < rows; i += span {
			acc := float32(0)
			base := i * stride
			for j := 0; j < cols; j++ {
				acc += x[base+j]
			}
			y[i] = acc
		}
	}, grid, block, stream)
}
