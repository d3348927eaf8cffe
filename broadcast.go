package simt

// AddRowVector adds a row vector to every row of a rows×cols matrix:
// out[i*stride + j] = in[i*stride + j] + row[j]. The launch is a 2D
// grid; both axes stride independently, so any grid shape covers the
// whole matrix. out may alias in for an in-place update.
func AddRowVector(rows, cols, stride int, row, in, out DevicePtr, stream *Stream) error {
	r := row.Float32()
	x := in.Float32()
	y := out.Float32()
	grid, block := broadcastConfig(rows, cols)

	return defaultContext.LaunchFunc(func(tid ThreadID) {
		spanX := tid.GridDim.X * tid.BlockDim.X
		spanY := tid.GridDim.Y * tid.BlockDim.Y
		for i := tid.GlobalY(); i < rows; i += spanY {
			base := i * stride
			for j := tid.GlobalX(); j < cols; j += spanX {
				y[base+j] = x[base+j] + r[j]
			}
		}
	}, grid, block, stream)
}
