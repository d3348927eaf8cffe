// Package simt provides SIMT-style parallel kernels over flat float32
// device buffers: elementwise transforms (activations and their
// gradients, arithmetic, comparisons), shared-memory tree reductions,
// a broadcast row add, and the classification kernels used by
// softmax/cross-entropy training loops.
//
// The execution model mirrors a GPU runtime: kernels are launched over a
// grid of thread blocks, threads identify themselves through a ThreadID,
// and every kernel body uses a grid-stride loop so results do not depend
// on the launch shape. Reduction kernels run as cooperative blocks with
// a per-block shared scratch array and an intra-block barrier.
//
// Example usage:
//
//	d_in, _ := simt.Malloc(n * 4)
//	d_out, _ := simt.Malloc(n * 4)
//	simt.Memcpy(d_in, host, n*4, simt.MemcpyHostToDevice)
//
//	simt.Sigmoid(n, d_in, d_out, nil) // nil = default stream
//	simt.Synchronize()
//
// Buffers are owned by the caller. Kernels never allocate, never
// validate shapes or label ranges, and never report faults of their own;
// the caller is responsible for sizing buffers to the dimensions it
// passes, exactly as with an asynchronous accelerator runtime.
package simt
