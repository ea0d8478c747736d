package drum

import (
	"fmt"
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cwbudde/algo-drums/dsp"
)

// PresetParams is the full parameter tuple one effect preset assigns.
// Applying a preset is a pure assignment of these fields; bypass gates
// are independent of the parameter values, so toggling a stage off
// preserves its settings for re-enabling.
type PresetParams struct {
	PitchBypass bool
	PitchCents  float64 // signed shift, ±1200 = one octave
	PitchMix    float64 // wet/dry, 0..1

	DelayBypass   bool
	DelaySeconds  float64
	DelayFeedback float64
	DelayMix      float64

	ReverbBypass bool
	ReverbMix    float64
}

// EffectPreset enumerates the built-in presets.
type EffectPreset int

const (
	PresetDry EffectPreset = iota
	PresetClub
	PresetHall
	PresetTape
	PresetRiser

	numPresets = 5
)

var presetNames = [numPresets]string{"dry", "club", "hall", "tape", "riser"}

func (p EffectPreset) String() string {
	if p < 0 || int(p) >= numPresets {
		return fmt.Sprintf("EffectPreset(%d)", int(p))
	}
	return presetNames[p]
}

// Valid reports whether p is one of the enumerated presets.
func (p EffectPreset) Valid() bool {
	return p >= 0 && int(p) < numPresets
}

// Presets returns all built-in presets in enumeration order.
func Presets() []EffectPreset {
	return []EffectPreset{PresetDry, PresetClub, PresetHall, PresetTape, PresetRiser}
}

// ParsePreset resolves a preset by its flag/JSON name.
func ParsePreset(name string) (EffectPreset, error) {
	for i, n := range presetNames {
		if n == name {
			return EffectPreset(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect preset %q", name)
}

// Params returns the parameter tuple this preset assigns.
func (p EffectPreset) Params() PresetParams {
	switch p {
	case PresetClub:
		return PresetParams{
			PitchBypass:   true,
			DelaySeconds:  0.125,
			DelayFeedback: 0.35,
			DelayMix:      0.25,
			ReverbMix:     0.12,
		}
	case PresetHall:
		return PresetParams{
			PitchBypass:   true,
			DelayBypass:   true,
			DelaySeconds:  0.25,
			DelayFeedback: 0.3,
			ReverbMix:     0.42,
		}
	case PresetTape:
		return PresetParams{
			PitchCents:    -45,
			PitchMix:      1.0,
			DelaySeconds:  0.31,
			DelayFeedback: 0.52,
			DelayMix:      0.3,
			ReverbMix:     0.18,
		}
	case PresetRiser:
		return PresetParams{
			PitchCents:    380,
			PitchMix:      0.6,
			DelaySeconds:  0.09,
			DelayFeedback: 0.45,
			DelayMix:      0.35,
			ReverbBypass:  true,
			ReverbMix:     0.25,
		}
	default: // PresetDry: everything bypassed, neutral parameters kept
		return PresetParams{
			PitchBypass:   true,
			DelayBypass:   true,
			ReverbBypass:  true,
			DelaySeconds:  0.2,
			DelayFeedback: 0.3,
		}
	}
}

// Chain is the fixed-order mono effect bus: pitch -> delay -> reverb.
// Utility voices never pass through it.
type Chain struct {
	pitch  pitchStage
	delay  delayStage
	reverb reverbStage
}

// NewChain builds a chain for the given sample rate with PresetDry applied.
func NewChain(sampleRate int) *Chain {
	c := &Chain{
		pitch:  newPitchStage(sampleRate),
		delay:  newDelayStage(sampleRate),
		reverb: newReverbStage(sampleRate),
	}
	c.Apply(PresetDry.Params())
	return c
}

// Apply assigns a preset's parameter tuple to the stages.
func (c *Chain) Apply(p PresetParams) {
	c.pitch.bypass = p.PitchBypass
	c.pitch.setShift(p.PitchCents)
	c.pitch.mix = p.PitchMix

	c.delay.bypass = p.DelayBypass
	c.delay.setTime(p.DelaySeconds)
	c.delay.feedback = float32(p.DelayFeedback)
	c.delay.mix = float32(p.DelayMix)

	c.reverb.bypass = p.ReverbBypass
	c.reverb.mix = float32(p.ReverbMix)
}

// Process runs one mono sample through the chain.
func (c *Chain) Process(x float32) float32 {
	x = c.pitch.process(x)
	x = c.delay.process(x)
	return c.reverb.process(x)
}

// Reset clears all stage memory (delay lines, comb tails).
func (c *Chain) Reset() {
	c.pitch.reset()
	c.delay.reset()
	c.reverb.reset()
}

// pitchStage is a dual-tap crossfaded modulated delay line, the classic
// cheap pitch shifter. The two taps sweep through a fixed window half a
// cycle apart; a triangular crossfade hides the wrap discontinuity.
type pitchStage struct {
	buf    *dsp.DelayLine
	window float32 // sweep window in samples
	phase  float32
	rate   float32 // tap sweep per sample, 1-ratio
	mix    float64
	bypass bool
}

func newPitchStage(sampleRate int) pitchStage {
	window := float32(sampleRate) * 0.045
	return pitchStage{
		buf:    dsp.NewDelayLine(int(window) + 2),
		window: window,
	}
}

func (s *pitchStage) setShift(cents float64) {
	s.rate = 1 - float32(centsToRatio(cents))
}

func (s *pitchStage) process(x float32) float32 {
	s.buf.Write(x)
	if s.bypass {
		return x
	}

	s.phase += s.rate
	for s.phase >= s.window {
		s.phase -= s.window
	}
	for s.phase < 0 {
		s.phase += s.window
	}

	tap1 := s.phase
	tap2 := s.phase + s.window/2
	if tap2 >= s.window {
		tap2 -= s.window
	}
	// Triangular crossfade: each tap fades out as it approaches a wrap.
	w1 := 1 - absf(tap1-s.window/2)/(s.window/2)
	wet := s.buf.ReadFractional(tap1+1)*w1 + s.buf.ReadFractional(tap2+1)*(1-w1)
	m := float32(s.mix)
	return x*(1-m) + wet*m
}

func (s *pitchStage) reset() {
	s.buf.Reset()
	s.phase = 0
}

// delayStage is a feedback delay with a lowpass darkening the repeats.
type delayStage struct {
	buf      *dsp.DelayLine
	lp       *dsp.Biquad
	samples  float32
	feedback float32
	mix      float32
	bypass   bool

	sampleRate int
}

func newDelayStage(sampleRate int) delayStage {
	return delayStage{
		buf:        dsp.NewDelayLine(sampleRate), // up to 1s of delay
		lp:         dsp.NewLowpass(3200, float32(sampleRate), 0.707),
		sampleRate: sampleRate,
	}
}

func (s *delayStage) setTime(seconds float64) {
	smp := float32(seconds * float64(s.sampleRate))
	max := float32(s.buf.Size() - 2)
	s.samples = clampf(smp, 1, max)
}

func (s *delayStage) process(x float32) float32 {
	wet := s.buf.ReadFractional(s.samples)
	fb := float32(dspcore.FlushDenormals(float64(s.lp.Process(wet) * s.feedback)))
	s.buf.Write(x + fb)
	if s.bypass {
		return x
	}
	return x*(1-s.mix) + wet*s.mix
}

func (s *delayStage) reset() {
	s.buf.Reset()
	s.lp.Reset()
}

// reverbStage is a compact Schroeder reverberator: four parallel
// damped feedback combs into two series allpasses.
type reverbStage struct {
	combs   [4]comb
	allpass [2]allpass
	mix     float32
	bypass  bool
}

// Tuned at 44.1kHz, scaled to the working rate.
var combTuning = [4]int{1557, 1617, 1491, 1422}
var allpassTuning = [2]int{225, 556}

func newReverbStage(sampleRate int) reverbStage {
	scale := float64(sampleRate) / 44100.0
	var s reverbStage
	for i := range s.combs {
		n := int(math.Round(float64(combTuning[i]) * scale))
		s.combs[i] = comb{buf: dsp.NewDelayLine(n), feedback: 0.77, damp: 0.22}
	}
	for i := range s.allpass {
		n := int(math.Round(float64(allpassTuning[i]) * scale))
		s.allpass[i] = allpass{buf: dsp.NewDelayLine(n), gain: 0.5}
	}
	return s
}

func (s *reverbStage) process(x float32) float32 {
	if s.bypass {
		// Keep feeding the combs so enabling mid-note does not click.
		for i := range s.combs {
			s.combs[i].process(x)
		}
		return x
	}
	var wet float32
	for i := range s.combs {
		wet += s.combs[i].process(x)
	}
	wet *= 0.25
	for i := range s.allpass {
		wet = s.allpass[i].process(wet)
	}
	return x*(1-s.mix) + wet*s.mix
}

func (s *reverbStage) reset() {
	for i := range s.combs {
		s.combs[i].reset()
	}
	for i := range s.allpass {
		s.allpass[i].reset()
	}
}

type comb struct {
	buf      *dsp.DelayLine
	store    float32
	feedback float32
	damp     float32
}

func (c *comb) process(x float32) float32 {
	out := c.buf.Read(c.buf.Size() - 1)
	c.store = float32(dspcore.FlushDenormals(float64(out*(1-c.damp) + c.store*c.damp)))
	c.buf.Write(x + c.store*c.feedback)
	return out
}

func (c *comb) reset() {
	c.buf.Reset()
	c.store = 0
}

type allpass struct {
	buf  *dsp.DelayLine
	gain float32
}

func (a *allpass) process(x float32) float32 {
	back := a.buf.Read(a.buf.Size() - 1)
	out := -x + back
	a.buf.Write(x + back*a.gain)
	return out
}

func (a *allpass) reset() {
	a.buf.Reset()
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
