package simt

import "math"

// Scalar float32 helpers used by the kernel bodies.

func exp32(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func log32(x float32) float32 {
	return float32(math.Log(float64(x)))
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func pow32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// sigmoid32 computes 1/(1+exp(-x)). The two branches keep the exp
// argument non-positive so neither side can overflow.
func sigmoid32(x float32) float32 {
	if x >= 0 {
		return 1.0 / (1.0 + exp32(-x))
	}
	e := exp32(x)
	return e / (1.0 + e)
}

func tanh32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

// softplus32 computes log(1+exp(x)). The intermediate runs in float64,
// so the result stays finite across the whole float32 range.
func softplus32(x float32) float32 {
	return float32(math.Log(1.0 + math.Exp(float64(x))))
}
