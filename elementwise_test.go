package simt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toDevice allocates a device buffer and copies data into it.
func toDevice(t *testing.T, data []float32) DevicePtr {
	t.Helper()
	d, err := Malloc(len(data) * 4)
	require.NoError(t, err)
	require.NoError(t, Memcpy(d, data, len(data)*4, MemcpyHostToDevice))
	return d
}

// labelsToDevice allocates a device buffer for int32 labels.
func labelsToDevice(t *testing.T, labels []int32) DevicePtr {
	t.Helper()
	d, err := Malloc(len(labels) * 4)
	require.NoError(t, err)
	require.NoError(t, Memcpy(d, labels, len(labels)*4, MemcpyHostToDevice))
	return d
}

// deviceBuffer allocates an uninitialized output buffer of n float32s.
func deviceBuffer(t *testing.T, n int) DevicePtr {
	t.Helper()
	d, err := Malloc(n * 4)
	require.NoError(t, err)
	return d
}

// fromDevice synchronizes the default context and copies n float32s
// back to the host.
func fromDevice(t *testing.T, d DevicePtr, n int) []float32 {
	t.Helper()
	require.NoError(t, Synchronize())
	host := make([]float32, n)
	require.NoError(t, Memcpy(host, d, n*4, MemcpyDeviceToHost))
	return host
}

func TestUnaryOps(t *testing.T) {
	in := []float32{-2, -0.5, 0, 0.5, 2}

	tests := []struct {
		name string
		op   func(n int, in, out DevicePtr, stream *Stream) error
		ref  func(x float64) float64
	}{
		{"Exp", Exp, math.Exp},
		{"Sqrt", Sqrt, math.Sqrt},
		{"Square", Square, func(x float64) float64 { return x * x }},
		{"SquareGrad", SquareGrad, func(x float64) float64 { return 2 * x }},
		{"Sigmoid", Sigmoid, func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }},
		{"Relu", Relu, func(x float64) float64 { return math.Max(x, 0) }},
		{"ReluGrad", ReluGrad, func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		}},
		{"Tanh", Tanh, math.Tanh},
		{"Softplus", Softplus, func(x float64) float64 { return math.Log(1 + math.Exp(x)) }},
		{"SoftplusGrad", SoftplusGrad, func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }},
	}

	tol := DefaultTolerance()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d_in := toDevice(t, in)
			d_out := deviceBuffer(t, len(in))
			require.NoError(t, tc.op(len(in), d_in, d_out, nil))

			got := fromDevice(t, d_out, len(in))
			for i, x := range in {
				want := float32(tc.ref(float64(x)))
				if !Float32NearEqual(want, got[i], tol) {
					t.Errorf("%s(%f): expected %f, got %f", tc.name, x, want, got[i])
				}
			}
		})
	}
}

func TestLogPropagatesNonFinite(t *testing.T) {
	d_in := toDevice(t, []float32{1, float32(math.E), 0, -1})
	d_out := deviceBuffer(t, 4)
	require.NoError(t, Log(4, d_in, d_out, nil))

	got := fromDevice(t, d_out, 4)
	assert.InDelta(t, 0.0, got[0], 1e-6)
	assert.InDelta(t, 1.0, got[1], 1e-6)
	assert.True(t, math.IsInf(float64(got[2]), -1), "log(0) should be -Inf")
	assert.True(t, math.IsNaN(float64(got[3])), "log(-1) should be NaN")
}

// Gradient kernels consume the forward output, not the raw input.
func TestSigmoidGradOfForwardOutput(t *testing.T) {
	xs := []float32{-20, -2, 0, 2, 20}

	d_x := toDevice(t, xs)
	d_sig := deviceBuffer(t, len(xs))
	d_grad := deviceBuffer(t, len(xs))
	require.NoError(t, Sigmoid(len(xs), d_x, d_sig, nil))
	require.NoError(t, SigmoidGrad(len(xs), d_sig, d_grad, nil))

	sig := fromDevice(t, d_sig, len(xs))
	grad := fromDevice(t, d_grad, len(xs))
	for i := range xs {
		want := sig[i] * (1 - sig[i])
		assert.InDelta(t, want, grad[i], 1e-6, "x=%f", xs[i])
	}
}

func TestTanhGradOfForwardOutput(t *testing.T) {
	xs := []float32{-3, -0.5, 0, 0.5, 3}

	d_x := toDevice(t, xs)
	d_th := deviceBuffer(t, len(xs))
	d_grad := deviceBuffer(t, len(xs))
	require.NoError(t, Tanh(len(xs), d_x, d_th, nil))
	require.NoError(t, TanhGrad(len(xs), d_th, d_grad, nil))

	grad := fromDevice(t, d_grad, len(xs))
	for i, x := range xs {
		y := math.Tanh(float64(x))
		assert.InDelta(t, 1-y*y, grad[i], 1e-6, "x=%f", x)
	}
}

func TestBinaryOps(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{4, 3, 2, 0.5}

	tests := []struct {
		name string
		op   func(n int, a, b, out DevicePtr, stream *Stream) error
		want []float32
	}{
		{"Add", Add, []float32{5, 5, 5, 4.5}},
		{"Sub", Sub, []float32{-3, -1, 1, 3.5}},
		{"Mul", Mul, []float32{4, 6, 6, 2}},
		{"Div", Div, []float32{0.25, 2.0 / 3.0, 1.5, 8}},
		{"Pow", Pow, []float32{1, 8, 9, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d_a := toDevice(t, a)
			d_b := toDevice(t, b)
			d_out := deviceBuffer(t, len(a))
			require.NoError(t, tc.op(len(a), d_a, d_b, d_out, nil))

			got := fromDevice(t, d_out, len(a))
			for i := range tc.want {
				assert.InDelta(t, tc.want[i], got[i], 1e-5, "%s index %d", tc.name, i)
			}
		})
	}
}

func TestDivByZeroPropagatesInf(t *testing.T) {
	d_a := toDevice(t, []float32{1, -1, 0})
	d_b := toDevice(t, []float32{0, 0, 0})
	d_out := deviceBuffer(t, 3)
	require.NoError(t, Div(3, d_a, d_b, d_out, nil))

	got := fromDevice(t, d_out, 3)
	assert.True(t, math.IsInf(float64(got[0]), 1))
	assert.True(t, math.IsInf(float64(got[1]), -1))
	assert.True(t, math.IsNaN(float64(got[2])))
}

func TestScalarOps(t *testing.T) {
	in := []float32{1, 2, 4, 8}

	d_in := toDevice(t, in)
	d_out := deviceBuffer(t, len(in))

	require.NoError(t, MulScalar(len(in), 0.5, d_in, d_out, nil))
	got := fromDevice(t, d_out, len(in))
	assert.Equal(t, []float32{0.5, 1, 2, 4}, got)

	require.NoError(t, RecipScale(len(in), 8, d_in, d_out, nil))
	got = fromDevice(t, d_out, len(in))
	assert.Equal(t, []float32{8, 4, 2, 1}, got)

	require.NoError(t, Fill(len(in), 3.5, d_out, nil))
	got = fromDevice(t, d_out, len(in))
	assert.Equal(t, []float32{3.5, 3.5, 3.5, 3.5}, got)
}

// Threshold is a strict less-than: values equal to alpha map to 0.
func TestThresholdStrictLess(t *testing.T) {
	d_in := toDevice(t, []float32{0.2, 0.6, 0.5})
	d_out := deviceBuffer(t, 3)
	require.NoError(t, Threshold(3, 0.5, d_in, d_out, nil))

	got := fromDevice(t, d_out, 3)
	assert.Equal(t, []float32{1, 0, 0}, got)
}

func TestScalarComparisons(t *testing.T) {
	in := []float32{-1, 0, 1, 2}

	tests := []struct {
		name string
		op   func(n int, alpha float32, in, out DevicePtr, stream *Stream) error
		want []float32
	}{
		{"GreaterEqual", GreaterEqual, []float32{0, 0, 1, 1}},
		{"Greater", Greater, []float32{0, 0, 0, 1}},
		{"LessEqual", LessEqual, []float32{1, 1, 1, 0}},
		{"Less", Less, []float32{1, 1, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d_in := toDevice(t, in)
			d_out := deviceBuffer(t, len(in))
			require.NoError(t, tc.op(len(in), 1.0, d_in, d_out, nil))
			assert.Equal(t, tc.want, fromDevice(t, d_out, len(in)))
		})
	}
}

func TestInPlaceAliasing(t *testing.T) {
	d := toDevice(t, []float32{1, 2, 3, 4})
	require.NoError(t, Square(4, d, d, nil))
	assert.Equal(t, []float32{1, 4, 9, 16}, fromDevice(t, d, 4))
}

// Re-running a pure op on the same input must reproduce the output
// bit for bit.
func TestElementwiseDeterminism(t *testing.T) {
	in := make([]float32, 777)
	for i := range in {
		in[i] = float32(i)*0.137 - 50
	}
	d_in := toDevice(t, in)

	d_out1 := deviceBuffer(t, len(in))
	d_out2 := deviceBuffer(t, len(in))
	require.NoError(t, Sigmoid(len(in), d_in, d_out1, nil))
	require.NoError(t, Sigmoid(len(in), d_in, d_out2, nil))

	assert.Equal(t, fromDevice(t, d_out1, len(in)), fromDevice(t, d_out2, len(in)))
}
