package drum

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-drums/dsp"
)

// Headroom applied to every generated buffer so that a handful of
// simultaneous voices survive the mix bus before mixdown normalization.
const synthHeadroom = 0.7

const (
	vocalDuration = 0.15
	clickDuration = 0.05
)

// kick: low sine with a downward pitch glide and a squared envelope.
type kickVoicing struct {
	baseHz  float64 // resting frequency at the end of the glide
	glideHz float64 // extra frequency at t=0, decaying linearly
	decay   float64 // exponential body decay rate (1/s)
	square  bool    // retro packs use the square approximation
}

// snare: noise blended with a tonal body under a linear envelope.
type snareVoicing struct {
	toneHz    float64
	noiseMix  float64 // 0..1 share of noise vs tone
	toneDecay float64
}

// hihat: noise under a high-order power envelope.
type hihatVoicing struct {
	envExp float64
	length float64 // fraction of the pack duration actually used
}

// clap: noise gated by discrete micro-burst windows plus a short tail.
type clapVoicing struct {
	bursts   int
	burstGap float64 // seconds between burst onsets
	burstLen float64
	tailExp  float64
}

// tom: mid sine with a shallow glide.
type tomVoicing struct {
	baseHz  float64
	glideHz float64
	decay   float64
	square  bool
}

// cymbal: noise plus stacked inharmonic high partials under a long envelope.
type cymbalVoicing struct {
	partials []float64
	partAmp  float64
	noiseAmp float64
	envExp   float64
}

// cowbell: two inharmonic partials.
type cowbellVoicing struct {
	loHz, hiHz float64
	envExp     float64
	square     bool
}

// shaker: noise gated by a slow oscillating gate.
type shakerVoicing struct {
	gateHz float64
	envExp float64
}

type packVoicing struct {
	kick    kickVoicing
	snare   snareVoicing
	hihat   hihatVoicing
	clap    clapVoicing
	tom     tomVoicing
	cymbal  cymbalVoicing
	cowbell cowbellVoicing
	shaker  shakerVoicing
}

var voicings = [numPacks]packVoicing{
	PackClassic: {
		kick:    kickVoicing{baseHz: 52, glideHz: 70, decay: 14},
		snare:   snareVoicing{toneHz: 190, noiseMix: 0.62, toneDecay: 22},
		hihat:   hihatVoicing{envExp: 4, length: 0.45},
		clap:    clapVoicing{bursts: 3, burstGap: 0.011, burstLen: 0.008, tailExp: 3},
		tom:     tomVoicing{baseHz: 120, glideHz: 45, decay: 11},
		cymbal:  cymbalVoicing{partials: []float64{3151, 4044, 5312}, partAmp: 0.22, noiseAmp: 0.5, envExp: 1.6},
		cowbell: cowbellVoicing{loHz: 540, hiHz: 835, envExp: 2.2},
		shaker:  shakerVoicing{gateHz: 14, envExp: 2},
	},
	PackElectro: {
		kick:    kickVoicing{baseHz: 45, glideHz: 110, decay: 9},
		snare:   snareVoicing{toneHz: 240, noiseMix: 0.5, toneDecay: 18},
		hihat:   hihatVoicing{envExp: 6, length: 0.3},
		clap:    clapVoicing{bursts: 4, burstGap: 0.009, burstLen: 0.007, tailExp: 4},
		tom:     tomVoicing{baseHz: 150, glideHz: 90, decay: 8},
		cymbal:  cymbalVoicing{partials: []float64{2960, 3871, 5033, 6217}, partAmp: 0.26, noiseAmp: 0.42, envExp: 1.4},
		cowbell: cowbellVoicing{loHz: 562, hiHz: 845, envExp: 2.6, square: true},
		shaker:  shakerVoicing{gateHz: 18, envExp: 2.4},
	},
	PackVinyl: {
		kick:    kickVoicing{baseHz: 58, glideHz: 50, decay: 17},
		snare:   snareVoicing{toneHz: 170, noiseMix: 0.72, toneDecay: 26},
		hihat:   hihatVoicing{envExp: 3.4, length: 0.5},
		clap:    clapVoicing{bursts: 3, burstGap: 0.013, burstLen: 0.009, tailExp: 2.6},
		tom:     tomVoicing{baseHz: 108, glideHz: 32, decay: 13},
		cymbal:  cymbalVoicing{partials: []float64{3320, 4480}, partAmp: 0.18, noiseAmp: 0.56, envExp: 1.8},
		cowbell: cowbellVoicing{loHz: 512, hiHz: 790, envExp: 2.0},
		shaker:  shakerVoicing{gateHz: 11, envExp: 1.8},
	},
	PackRetro: {
		kick:    kickVoicing{baseHz: 55, glideHz: 85, decay: 12, square: true},
		snare:   snareVoicing{toneHz: 220, noiseMix: 0.55, toneDecay: 20},
		hihat:   hihatVoicing{envExp: 5, length: 0.35},
		clap:    clapVoicing{bursts: 2, burstGap: 0.012, burstLen: 0.008, tailExp: 3.4},
		tom:     tomVoicing{baseHz: 140, glideHz: 60, decay: 10, square: true},
		cymbal:  cymbalVoicing{partials: []float64{3000, 4500, 6000}, partAmp: 0.24, noiseAmp: 0.46, envExp: 1.5},
		cowbell: cowbellVoicing{loHz: 587, hiHz: 880, envExp: 2.4, square: true},
		shaker:  shakerVoicing{gateHz: 20, envExp: 2.8},
	},
}

// Synthesize renders the stereo buffer for one (pack, pad) pair.
// The envelope and frequency contour are fully determined by the pack
// tables; only the noise component depends on rng. A nil rng draws a
// time-based seed, so regeneration is idempotent in structure but not
// in exact sample values.
func Synthesize(pack SoundPack, pad int, sampleRate int, rng *rand.Rand) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if !ValidPad(pad) {
		return nil, fmt.Errorf("pad id %d outside catalogue", pad)
	}
	if !UtilityPad(pad) && !pack.Valid() {
		return nil, fmt.Errorf("invalid sound pack %d", int(pack))
	}

	var duration float64
	switch pad {
	case PadVocal:
		duration = vocalDuration
	case PadClick:
		duration = clickDuration
	default:
		duration = pack.PadDuration()
	}

	frames := int(math.Round(float64(sampleRate) * duration))
	if frames < 1 {
		frames = 1
	}
	out := make([]float32, frames*2)
	noise := dsp.NewNoise(rng)

	gen := generatorFor(pack, pad)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		s := softClip(gen(t, duration, noise)) * synthHeadroom
		out[i*2] = float32(s)
		out[i*2+1] = float32(s)
	}
	return out, nil
}

type sampleGen func(t, duration float64, noise *dsp.Noise) float64

func generatorFor(pack SoundPack, pad int) sampleGen {
	switch pad {
	case PadVocal:
		return genVocal
	case PadClick:
		return genClick
	}
	v := voicings[pack]
	switch pad {
	case PadKick:
		return v.kick.gen
	case PadSnare:
		return v.snare.gen
	case PadHiHat:
		return v.hihat.gen
	case PadClap:
		return v.clap.gen
	case PadTom:
		return v.tom.gen
	case PadCymbal:
		return v.cymbal.gen
	case PadCowbell:
		return v.cowbell.gen
	default:
		return v.shaker.gen
	}
}

func glidingTone(t, baseHz, glideHz, glideDur float64, square bool) float64 {
	f := baseHz + glideHz*dsp.LinearDecay(t, glideDur)
	if square {
		return dsp.SquareApprox(f, t)
	}
	return dsp.Sine(f, t)
}

func (v kickVoicing) gen(t, duration float64, _ *dsp.Noise) float64 {
	env := dsp.PowerDecay(t, duration, 2) * expDecay(t, v.decay)
	return glidingTone(t, v.baseHz, v.glideHz, duration*0.3, v.square) * env
}

func (v snareVoicing) gen(t, duration float64, noise *dsp.Noise) float64 {
	env := dsp.LinearDecay(t, duration)
	tone := dsp.Sine(v.toneHz, t) * expDecay(t, v.toneDecay)
	return (v.noiseMix*noise.Sample() + (1-v.noiseMix)*tone) * env
}

func (v hihatVoicing) gen(t, duration float64, noise *dsp.Noise) float64 {
	return noise.Sample() * dsp.PowerDecay(t, duration*v.length, v.envExp)
}

func (v clapVoicing) gen(t, duration float64, noise *dsp.Noise) float64 {
	// Discrete micro-bursts with falling level, then a quiet diffuse tail.
	gate := 0.0
	for b := 0; b < v.bursts; b++ {
		onset := float64(b) * v.burstGap
		if t >= onset && t < onset+v.burstLen {
			gate = 1.0 - 0.18*float64(b)
			break
		}
	}
	tailStart := float64(v.bursts) * v.burstGap
	if gate == 0 && t >= tailStart {
		gate = 0.4 * dsp.PowerDecay(t-tailStart, duration-tailStart, v.tailExp)
	}
	return noise.Sample() * gate
}

func (v tomVoicing) gen(t, duration float64, _ *dsp.Noise) float64 {
	env := dsp.PowerDecay(t, duration, 1.6) * expDecay(t, v.decay)
	return glidingTone(t, v.baseHz, v.glideHz, duration*0.5, v.square) * env
}

func (v cymbalVoicing) gen(t, duration float64, noise *dsp.Noise) float64 {
	s := noise.Sample() * v.noiseAmp
	for _, f := range v.partials {
		s += dsp.Sine(f, t) * v.partAmp
	}
	return s * dsp.PowerDecay(t, duration, v.envExp)
}

func (v cowbellVoicing) gen(t, duration float64, _ *dsp.Noise) float64 {
	var lo, hi float64
	if v.square {
		lo = dsp.SquareApprox(v.loHz, t)
		hi = dsp.SquareApprox(v.hiHz, t)
	} else {
		lo = dsp.Sine(v.loHz, t)
		hi = dsp.Sine(v.hiHz, t)
	}
	return (0.55*lo + 0.45*hi) * dsp.PowerDecay(t, duration, v.envExp)
}

func (v shakerVoicing) gen(t, duration float64, noise *dsp.Noise) float64 {
	gate := 0.5 + 0.5*dsp.Sine(v.gateHz, t)
	return noise.Sample() * gate * dsp.PowerDecay(t, duration, v.envExp)
}

// genVocal is a frequency-modulated accent tone: a wobbled carrier with
// two harmonic partials under a fast attack into a linear decay.
func genVocal(t, duration float64, _ *dsp.Noise) float64 {
	carrier := 392.0 + 24.0*dsp.Sine(7.0, t)
	s := dsp.Sine(carrier, t)
	s += 0.4 * dsp.Sine(carrier*2, t)
	s += 0.15 * dsp.Sine(carrier*3, t)
	return s * dsp.AttackRamp(t, 0.008) * dsp.LinearDecay(t, duration)
}

// genClick is the metronome tick: a short bright tone with a near-instant
// attack and a steep decay.
func genClick(t, duration float64, _ *dsp.Noise) float64 {
	s := dsp.Sine(1720, t) + 0.3*dsp.Sine(3440, t)
	return s * dsp.AttackRamp(t, 0.001) * dsp.PowerDecay(t, duration, 3)
}
