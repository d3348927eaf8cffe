package simt

// Elementwise kernels. Every body is a grid-stride loop over [0, n):
// thread t touches t, t+span, t+2*span, ... where span is the total
// thread count of the launch, so any grid/block shape covers every
// element exactly once. All ops are position-preserving, which makes
// in-place calls (out aliasing in) safe.
//
// No argument validation happens here; like their accelerator
// counterparts, these kernels assume the caller sized the buffers to n.

// unaryOp launches out[i] = f(in[i]) over [0, n).
func unaryOp(n int, in, out DevicePtr, stream *Stream, f func(float32) float32) error {
	x := in.Float32()
	y := out.Float32()
	grid, block := elementwiseConfig(n)
	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for i := tid.Global(); i < n; i += span {
			y[i] = f(x[i])
		}
	}, grid, block, stream)
}

// binaryOp launches out[i] = f(a[i], b[i]) over [0, n).
func binaryOp(n int, a, b, out DevicePtr, stream *Stream, f func(float32, float32) float32) error {
	xa := a.Float32()
	xb := b.Float32()
	y := out.Float32()
	grid, block := elementwiseConfig(n)
	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for i := tid.Global(); i < n; i += span {
			y[i] = f(xa[i], xb[i])
		}
	}, grid, block, stream)
}

// Exp computes out[i] = exp(in[i]).
func Exp(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, exp32)
}

// Log computes out[i] = log(in[i]). Non-positive inputs propagate
// -Inf/NaN, matching the device math library.
func Log(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, log32)
}

// Sqrt computes out[i] = sqrt(in[i]).
func Sqrt(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, sqrt32)
}

// Square computes out[i] = in[i]².
func Square(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 { return x * x })
}

// SquareGrad computes out[i] = 2*in[i], the derivative of Square.
func SquareGrad(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 { return 2 * x })
}

// Sigmoid computes out[i] = 1/(1+exp(-in[i])).
func Sigmoid(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, sigmoid32)
}

// SigmoidGrad computes out[i] = in[i]*(1-in[i]). The input is the
// forward sigmoid output, not the pre-activation.
func SigmoidGrad(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(y float32) float32 { return y * (1 - y) })
}

// Relu computes out[i] = max(in[i], 0).
func Relu(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	})
}

// ReluGrad computes out[i] = 1 if in[i] > 0 else 0.
func ReluGrad(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

// Tanh computes out[i] = tanh(in[i]).
func Tanh(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, tanh32)
}

// TanhGrad computes out[i] = 1 - in[i]². The input is the forward tanh
// output, not the pre-activation.
func TanhGrad(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(y float32) float32 { return 1 - y*y })
}

// Softplus computes out[i] = log(1+exp(in[i])).
func Softplus(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, softplus32)
}

// SoftplusGrad computes out[i] = sigmoid(in[i]), which is the exact
// derivative of softplus. Unlike the other *Grad kernels it consumes
// the pre-activation input.
func SoftplusGrad(n int, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, sigmoid32)
}

// Add computes out[i] = a[i] + b[i].
func Add(n int, a, b, out DevicePtr, stream *Stream) error {
	return binaryOp(n, a, b, out, stream, func(x, y float32) float32 { return x + y })
}

// Sub computes out[i] = a[i] - b[i].
func Sub(n int, a, b, out DevicePtr, stream *Stream) error {
	return binaryOp(n, a, b, out, stream, func(x, y float32) float32 { return x - y })
}

// Mul computes out[i] = a[i] * b[i].
func Mul(n int, a, b, out DevicePtr, stream *Stream) error {
	return binaryOp(n, a, b, out, stream, func(x, y float32) float32 { return x * y })
}

// Div computes out[i] = a[i] / b[i]. Division by zero is not guarded;
// the quotient propagates ±Inf/NaN.
func Div(n int, a, b, out DevicePtr, stream *Stream) error {
	return binaryOp(n, a, b, out, stream, func(x, y float32) float32 { return x / y })
}

// Pow computes out[i] = a[i] ^ b[i].
func Pow(n int, a, b, out DevicePtr, stream *Stream) error {
	return binaryOp(n, a, b, out, stream, pow32)
}

// MulScalar computes out[i] = alpha * in[i].
func MulScalar(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 { return alpha * x })
}

// RecipScale computes out[i] = alpha / in[i]. Zero inputs propagate
// ±Inf.
func RecipScale(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 { return alpha / x })
}

// Fill sets out[i] = value for every element.
func Fill(n int, value float32, out DevicePtr, stream *Stream) error {
	y := out.Float32()
	grid, block := elementwiseConfig(n)
	return defaultContext.LaunchFunc(func(tid ThreadID) {
		span := tid.GridSpan()
		for i := tid.Global(); i < n; i += span {
			y[i] = value
		}
	}, grid, block, stream)
}

// Threshold computes out[i] = 1 if in[i] < alpha else 0. The
// comparison is strict.
func Threshold(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x < alpha {
			return 1
		}
		return 0
	})
}

// GreaterEqual computes out[i] = 1 if in[i] >= alpha else 0.
func GreaterEqual(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x >= alpha {
			return 1
		}
		return 0
	})
}

// Greater computes out[i] = 1 if in[i] > alpha else 0.
func Greater(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x > alpha {
			return 1
		}
		return 0
	})
}

// LessEqual computes out[i] = 1 if in[i] <= alpha else 0.
func LessEqual(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x <= alpha {
			return 1
		}
		return 0
	})
}

// Less computes out[i] = 1 if in[i] < alpha else 0.
func Less(n int, alpha float32, in, out DevicePtr, stream *Stream) error {
	return unaryOp(n, in, out, stream, func(x float32) float32 {
		if x < alpha {
			return 1
		}
		return 0
	})
}
