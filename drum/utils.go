package drum

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

func pow2Approx(x float64) float64 {
	const ln2 = 0.69314718055994530942
	return float64(approx.FastExp(float32(x * ln2)))
}

// centsToRatio converts a signed cents offset to a frequency ratio.
func centsToRatio(cents float64) float64 {
	return pow2Approx(cents / 1200.0)
}

// expDecay evaluates e^(-rate*t), the workhorse envelope for drum bodies.
func expDecay(t, rate float64) float64 {
	return float64(approx.FastExp(float32(-rate * t)))
}

// softClip keeps synthesized samples inside (-1, 1) without the
// harmonic splatter of hard clamping.
func softClip(x float64) float64 {
	return math.Tanh(x)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxAbs32(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}
