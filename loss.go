package simt

// Classification kernels. Both index a flattened batch×dim probability
// matrix by each sample's integer label. Labels are trusted to lie in
// [0, dim); out-of-range labels corrupt memory exactly as they would on
// a real device.

// CrossEntropyLoss accumulates the negative log likelihood of each
// sample's true class into loss:
//
//	loss[s] -= log(max(p[s*dim + labels[s]], FLT_MIN))
//
// The kernel subtracts into loss rather than overwriting it, so the
// caller must zero loss beforehand; repeated calls compound. The
// FLT_MIN clamp keeps log(0) from producing -Inf when a probability
// underflows.
func CrossEntropyLoss(batchsize, dim int, p, labels, loss DevicePtr, stream *Stream) error {
	probs := p.Float32()
	lab := labels.Int32()
	out := loss.Float32()
	grid, block := elementwiseConfig(batchsize)

	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for s := tid.Global(); s < batchsize; s += span {
			v := probs[s*dim+int(lab[s])]
			if v < minNormalFloat32 {
				v = minNormalFloat32
			}
			out[s] -= log32(v)
		}
	}, grid, block, stream)
}

// SoftmaxCrossEntropyBackward applies the -1 correction of the
// combined softmax/cross-entropy gradient at each sample's true-label
// position:
//
//	grad[s*dim + labels[s]] = p[s*dim + labels[s]] - 1
//
// Only that one position per sample is written. The full gradient is
// p - onehot(label), so the caller must copy p into grad before this
// call; every other position is left untouched.
func SoftmaxCrossEntropyBackward(batchsize, dim int, p, labels, grad DevicePtr, stream *Stream) error {
	probs := p.Float32()
	lab := labels.Int32()
	out := grad.Float32()
	grid, block := elementwiseConfig(batchsize)

	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for s := tid.Global(); s < batchsize; s += span {
			idx := s*dim + int(lab[s])
			out[idx] = probs[idx] - 1
		}
	}, grid, block, stream)
}
