package dsp

import (
	"math"
	"math/rand"
	"time"
)

// Sine evaluates a unit-amplitude sine oscillator at time t (seconds).
func Sine(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

// SquareApprox evaluates a naive square oscillator as the sign of a sine.
func SquareApprox(freq, t float64) float64 {
	if Sine(freq, t) >= 0 {
		return 1
	}
	return -1
}

// LinearDecay ramps from 1 at t=0 to 0 at t=duration.
// Callers guarantee duration > 0.
func LinearDecay(t, duration float64) float64 {
	v := 1 - t/duration
	if v < 0 {
		return 0
	}
	return v
}

// AttackRamp ramps from 0 at t=0 to 1 at t=attack and stays there.
// Callers guarantee attack > 0.
func AttackRamp(t, attack float64) float64 {
	v := t / attack
	if v > 1 {
		return 1
	}
	return v
}

// PowerDecay is a linear decay raised to the given exponent, producing
// increasingly front-loaded envelopes for exponent > 1.
func PowerDecay(t, duration, exponent float64) float64 {
	return math.Pow(LinearDecay(t, duration), exponent)
}

// Noise draws uniform samples in [-1, 1] from an injected source so
// synthesis can be made structurally reproducible under a fixed seed.
type Noise struct {
	rng *rand.Rand
}

// NewNoise wraps rng as a noise source. A nil rng gets a time-seeded one.
func NewNoise(rng *rand.Rand) *Noise {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Noise{rng: rng}
}

// Sample returns the next uniform value in [-1, 1].
func (n *Noise) Sample() float64 {
	return n.rng.Float64()*2 - 1
}
