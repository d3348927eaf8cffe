package simt

import (
	"runtime"
	"sync"
)

// launchGrid implements the plain (non-cooperative) execution path.
// Blocks are distributed over worker goroutines; threads within one
// block run sequentially on their worker. That is sufficient for every
// elementwise kernel, where threads neither share state nor meet at
// barriers.
func (ctx *Context) launchGrid(
	kernelFunc func(ThreadID),
	grid, block Dim3,
	stream *Stream,
) error {
	gridSize := grid.Size()
	blockSize := block.Size()

	if gridSize == 0 || blockSize == 0 {
		// Submit an empty task to maintain stream ordering
		stream.Submit(func() {})
		return nil
	}

	numWorkers := runtime.NumCPU()
	if gridSize < numWorkers {
		numWorkers = gridSize
	}
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for workerID := 0; workerID < numWorkers; workerID++ {
			startBlock := workerID * blocksPerWorker
			endBlock := startBlock + blocksPerWorker
			if endBlock > gridSize {
				endBlock = gridSize
			}

			go func(start, end int) {
				defer wg.Done()
				for blockID := start; blockID < end; blockID++ {
					blockIdx := linearTo3D(blockID, grid)
					for threadID := 0; threadID < blockSize; threadID++ {
						kernelFunc(ThreadID{
							BlockIdx:  blockIdx,
							ThreadIdx: linearTo3D(threadID, block),
							BlockDim:  block,
							GridDim:   grid,
						})
					}
				}
			}(startBlock, endBlock)
		}

		wg.Wait()
	})

	return nil
}

// launchCooperative implements the cooperative execution path used by
// the shared-memory reductions. Every thread of a block runs as its own
// goroutine; the block's threads share a float32 scratch array and a
// reusable barrier, exposed through Block. Blocks are independent of
// each other and run concurrently, capped at one in-flight block per
// host core.
func (ctx *Context) launchCooperative(
	fn BlockKernelFunc,
	grid, block Dim3,
	sharedLen int,
	stream *Stream,
) error {
	gridSize := grid.Size()
	blockSize := block.Size()

	if gridSize == 0 || blockSize == 0 {
		stream.Submit(func() {})
		return nil
	}
	if blockSize > MaxThreadsPerBlock {
		return NewExecutionError("LaunchBlocks", "block size exceeds MaxThreadsPerBlock", nil)
	}

	stream.Submit(func() {
		sem := make(chan struct{}, runtime.NumCPU())
		var wg sync.WaitGroup
		wg.Add(gridSize)

		for blockID := 0; blockID < gridSize; blockID++ {
			sem <- struct{}{}
			go func(blockID int) {
				defer func() {
					<-sem
					wg.Done()
				}()
				runBlock(fn, linearTo3D(blockID, grid), grid, block, sharedLen)
			}(blockID)
		}

		wg.Wait()
	})

	return nil
}

// runBlock executes all threads of one cooperative block and waits for
// them to finish.
func runBlock(fn BlockKernelFunc, blockIdx Dim3, grid, block Dim3, sharedLen int) {
	blockSize := block.Size()
	blk := &Block{
		Shared: make([]float32, sharedLen),
		bar:    newBarrier(blockSize),
	}

	var wg sync.WaitGroup
	wg.Add(blockSize)
	for threadID := 0; threadID < blockSize; threadID++ {
		go func(threadID int) {
			defer wg.Done()
			fn(ThreadID{
				BlockIdx:  blockIdx,
				ThreadIdx: linearTo3D(threadID, block),
				BlockDim:  block,
				GridDim:   grid,
			}, blk)
		}(threadID)
	}
	wg.Wait()
}

// linearTo3D converts a linear index to 3D coordinates.
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}

// Block is the per-block state of a cooperative kernel: a shared
// scratch array visible to all threads of the block, and the barrier
// behind Sync. It is exclusively owned by one block for one launch.
type Block struct {
	Shared []float32
	bar    *barrier
}

// Sync blocks the calling thread until every thread of the block has
// reached the same Sync call. Equivalent to __syncthreads: all shared
// memory writes issued before the barrier are visible after it.
func (b *Block) Sync() {
	b.bar.await()
}

// barrier is a reusable counting barrier for the threads of one block.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	arrived int
	gen     int
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) await() {
	b.mu.Lock()
	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
	} else {
		for gen == b.gen {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}
