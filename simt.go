package simt

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Device represents the compute device kernels execute on. In this
// runtime that is the host CPU presented with GPU-like properties.
type Device struct {
	ID       int    // Unique device identifier
	Name     string // Human-readable device name
	TotalMem uint64 // Total device memory in bytes
	NumCores int    // Number of hardware cores
	Lanes    int    // SIMD lanes per core (float32)
}

// Context is an execution context: it owns the memory pool, the stream
// table and the default stream. A Context must outlive every launch
// issued through it.
type Context struct {
	device        *Device
	mu            sync.Mutex
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
}

// Stream is an ordered queue of device operations. Operations submitted
// to one stream execute in submission order; separate streams may
// interleave. Callers treat it as an opaque token: create it, pass it to
// launches, synchronize on it.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

// Dim3 is a 3D extent for grid and block launch shapes.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements in the extent.
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// ThreadID identifies one thread's position in the launch hierarchy,
// with the same semantics as the blockIdx/threadIdx/blockDim/gridDim
// built-ins of a GPU kernel.
type ThreadID struct {
	BlockIdx  Dim3
	ThreadIdx Dim3
	BlockDim  Dim3
	GridDim   Dim3
}

// Global returns the global linear thread index along X.
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalX returns the global X index.
func (tid ThreadID) GlobalX() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalY returns the global Y index.
func (tid ThreadID) GlobalY() int {
	return tid.BlockIdx.Y*tid.BlockDim.Y + tid.ThreadIdx.Y
}

// GridSpan returns the total thread count along X across the whole
// grid: the stride of a 1D grid-stride loop.
func (tid ThreadID) GridSpan() int {
	return tid.GridDim.X * tid.BlockDim.X
}

// Kernel is a compute kernel executable across a launch grid. Execute
// is called concurrently and must be thread-safe.
type Kernel interface {
	Execute(tid ThreadID)
}

// KernelFunc adapts a plain function to the Kernel interface.
type KernelFunc func(tid ThreadID)

// Execute implements Kernel.
func (fn KernelFunc) Execute(tid ThreadID) {
	fn(tid)
}

// BlockKernelFunc is a cooperative kernel body: threads of one block
// share the Block scratch array and may meet at Block.Sync barriers.
type BlockKernelFunc func(tid ThreadID, blk *Block)

// Global runtime state
var (
	defaultDevice  *Device
	defaultContext *Context
	initOnce       sync.Once
)

func init() {
	initOnce.Do(func() {
		host := detectHost()
		defaultDevice = &Device{
			ID:       0,
			Name:     host.name,
			TotalMem: systemMemory(),
			NumCores: runtime.NumCPU(),
			Lanes:    host.lanes,
		}

		defaultContext = &Context{
			device:  defaultDevice,
			streams: make(map[int]*Stream),
			memory:  NewMemoryPool(),
		}
		defaultContext.defaultStream = defaultContext.CreateStream()
	})
}

// GetDevice returns the device the default context executes on.
func GetDevice() *Device {
	return defaultDevice
}

// Malloc allocates device memory of the given size in bytes on the
// default context.
func Malloc(size int) (DevicePtr, error) {
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc.
func Free(ptr DevicePtr) error {
	return defaultContext.Free(ptr)
}

// Memcpy copies memory between host slices and device pointers on the
// default context.
func Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	return defaultContext.Memcpy(dst, src, size, kind)
}

// Launch executes a kernel over the given grid on the default stream.
func Launch(kernel Kernel, grid, block Dim3) error {
	return defaultContext.Launch(kernel, grid, block, nil)
}

// Synchronize waits for every stream of the default context to drain.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// NewStream creates a stream on the default context.
func NewStream() *Stream {
	return defaultContext.CreateStream()
}

// CreateStream creates a new execution stream owned by the context.
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), streamQueueDepth),
		done:  make(chan struct{}),
	}
	go stream.worker()

	ctx.mu.Lock()
	ctx.streams[id] = stream
	ctx.mu.Unlock()
	return stream
}

// Launch executes a kernel over grid×block. A nil stream means the
// context's default stream. The call returns once the work is queued;
// use Stream.Synchronize or Context.Synchronize to wait for it.
func (ctx *Context) Launch(kernel Kernel, grid, block Dim3, stream *Stream) error {
	return ctx.launchGrid(kernel.Execute, grid, block, ctx.resolve(stream))
}

// LaunchFunc executes a kernel function over grid×block.
func (ctx *Context) LaunchFunc(fn KernelFunc, grid, block Dim3, stream *Stream) error {
	return ctx.launchGrid(fn, grid, block, ctx.resolve(stream))
}

// LaunchBlocks executes a cooperative kernel: every thread of a block
// runs as its own goroutine, sharing sharedLen float32 scratch slots and
// a barrier reachable through Block.
func (ctx *Context) LaunchBlocks(fn BlockKernelFunc, grid, block Dim3, sharedLen int, stream *Stream) error {
	return ctx.launchCooperative(fn, grid, block, sharedLen, ctx.resolve(stream))
}

// Synchronize waits for all streams owned by the context to complete.
func (ctx *Context) Synchronize() error {
	ctx.mu.Lock()
	streams := make([]*Stream, 0, len(ctx.streams))
	for _, s := range ctx.streams {
		streams = append(streams, s)
	}
	ctx.mu.Unlock()

	for _, s := range streams {
		s.Synchronize()
	}
	return nil
}

func (ctx *Context) resolve(stream *Stream) *Stream {
	if stream == nil {
		return ctx.defaultStream
	}
	return stream
}

// worker drains the stream's task queue in FIFO order.
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Submit enqueues a task on the stream.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize blocks until every task submitted so far has finished.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}
