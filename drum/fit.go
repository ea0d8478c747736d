package drum

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-drums/dsp"
)

// KnobDef bounds one tunable synthesis parameter for a pad timbre.
// Values travel through optimizers in knob units; IsInt knobs are
// rounded before use.
type KnobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

// FitKnobs returns the tunable parameter set for a pad timbre, seeded
// at the pack's stock voicing. The first knob is always the buffer
// duration in seconds.
func FitKnobs(pack SoundPack, pad int) ([]KnobDef, []float64, error) {
	if UtilityPad(pad) {
		return nil, nil, fmt.Errorf("utility slot %d has a fixed voicing", pad)
	}
	if !ValidPad(pad) {
		return nil, nil, fmt.Errorf("pad id %d outside catalogue", pad)
	}
	if !pack.Valid() {
		return nil, nil, fmt.Errorf("invalid sound pack %d", int(pack))
	}

	v := voicings[pack]
	defs := []KnobDef{{Name: "duration", Min: 0.05, Max: 0.6}}
	vals := []float64{pack.PadDuration()}
	add := func(def KnobDef, val float64) {
		defs = append(defs, def)
		vals = append(vals, val)
	}

	switch pad {
	case PadKick:
		add(KnobDef{Name: "base_hz", Min: 30, Max: 90}, v.kick.baseHz)
		add(KnobDef{Name: "glide_hz", Min: 0, Max: 160}, v.kick.glideHz)
		add(KnobDef{Name: "decay", Min: 4, Max: 24}, v.kick.decay)
		add(KnobDef{Name: "square", Min: 0, Max: 1, IsInt: true}, boolKnob(v.kick.square))
	case PadSnare:
		add(KnobDef{Name: "tone_hz", Min: 120, Max: 320}, v.snare.toneHz)
		add(KnobDef{Name: "noise_mix", Min: 0, Max: 1}, v.snare.noiseMix)
		add(KnobDef{Name: "tone_decay", Min: 8, Max: 40}, v.snare.toneDecay)
	case PadHiHat:
		add(KnobDef{Name: "env_exp", Min: 2, Max: 8}, v.hihat.envExp)
		add(KnobDef{Name: "length", Min: 0.2, Max: 0.7}, v.hihat.length)
	case PadClap:
		add(KnobDef{Name: "bursts", Min: 2, Max: 5, IsInt: true}, float64(v.clap.bursts))
		add(KnobDef{Name: "burst_gap", Min: 0.006, Max: 0.016}, v.clap.burstGap)
		add(KnobDef{Name: "burst_len", Min: 0.004, Max: 0.012}, v.clap.burstLen)
		add(KnobDef{Name: "tail_exp", Min: 2, Max: 5}, v.clap.tailExp)
	case PadTom:
		add(KnobDef{Name: "base_hz", Min: 80, Max: 200}, v.tom.baseHz)
		add(KnobDef{Name: "glide_hz", Min: 0, Max: 120}, v.tom.glideHz)
		add(KnobDef{Name: "decay", Min: 5, Max: 20}, v.tom.decay)
		add(KnobDef{Name: "square", Min: 0, Max: 1, IsInt: true}, boolKnob(v.tom.square))
	case PadCymbal:
		for i := 0; i < 3; i++ {
			f := 3000.0 + 1500.0*float64(i)
			if i < len(v.cymbal.partials) {
				f = v.cymbal.partials[i]
			}
			add(KnobDef{Name: fmt.Sprintf("partial_%d_hz", i+1), Min: 2000, Max: 7000}, f)
		}
		add(KnobDef{Name: "partial_amp", Min: 0.1, Max: 0.4}, v.cymbal.partAmp)
		add(KnobDef{Name: "noise_amp", Min: 0.2, Max: 0.7}, v.cymbal.noiseAmp)
		add(KnobDef{Name: "env_exp", Min: 1, Max: 3}, v.cymbal.envExp)
	case PadCowbell:
		add(KnobDef{Name: "lo_hz", Min: 400, Max: 700}, v.cowbell.loHz)
		add(KnobDef{Name: "hi_hz", Min: 700, Max: 1000}, v.cowbell.hiHz)
		add(KnobDef{Name: "env_exp", Min: 1.5, Max: 3.5}, v.cowbell.envExp)
		add(KnobDef{Name: "square", Min: 0, Max: 1, IsInt: true}, boolKnob(v.cowbell.square))
	case PadShaker:
		add(KnobDef{Name: "gate_hz", Min: 6, Max: 28}, v.shaker.gateHz)
		add(KnobDef{Name: "env_exp", Min: 1, Max: 4}, v.shaker.envExp)
	}
	return defs, vals, nil
}

// SynthesizeKnobs renders a pad from explicit knob values (in the
// order FitKnobs returns them) instead of the pack tables.
func SynthesizeKnobs(pad int, vals []float64, sampleRate int, rng *rand.Rand) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	gen, duration, err := generatorFromKnobs(pad, vals)
	if err != nil {
		return nil, err
	}

	frames := int(math.Round(float64(sampleRate) * duration))
	if frames < 1 {
		frames = 1
	}
	out := make([]float32, frames*2)
	noise := dsp.NewNoise(rng)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		s := softClip(gen(t, duration, noise)) * synthHeadroom
		out[i*2] = float32(s)
		out[i*2+1] = float32(s)
	}
	return out, nil
}

func generatorFromKnobs(pad int, vals []float64) (sampleGen, float64, error) {
	want := map[int]int{
		PadKick: 5, PadSnare: 4, PadHiHat: 3, PadClap: 5,
		PadTom: 5, PadCymbal: 7, PadCowbell: 5, PadShaker: 3,
	}
	n, ok := want[pad]
	if !ok {
		return nil, 0, fmt.Errorf("pad id %d has no knob space", pad)
	}
	if len(vals) != n {
		return nil, 0, fmt.Errorf("pad %d expects %d knob values, got %d", pad, n, len(vals))
	}
	duration := vals[0]
	if duration <= 0 {
		return nil, 0, fmt.Errorf("duration must be positive, got %g", duration)
	}

	var gen sampleGen
	switch pad {
	case PadKick:
		gen = kickVoicing{baseHz: vals[1], glideHz: vals[2], decay: vals[3], square: vals[4] >= 0.5}.gen
	case PadSnare:
		gen = snareVoicing{toneHz: vals[1], noiseMix: vals[2], toneDecay: vals[3]}.gen
	case PadHiHat:
		gen = hihatVoicing{envExp: vals[1], length: vals[2]}.gen
	case PadClap:
		gen = clapVoicing{bursts: int(math.Round(vals[1])), burstGap: vals[2], burstLen: vals[3], tailExp: vals[4]}.gen
	case PadTom:
		gen = tomVoicing{baseHz: vals[1], glideHz: vals[2], decay: vals[3], square: vals[4] >= 0.5}.gen
	case PadCymbal:
		gen = cymbalVoicing{partials: []float64{vals[1], vals[2], vals[3]}, partAmp: vals[4], noiseAmp: vals[5], envExp: vals[6]}.gen
	case PadCowbell:
		gen = cowbellVoicing{loHz: vals[1], hiHz: vals[2], envExp: vals[3], square: vals[4] >= 0.5}.gen
	case PadShaker:
		gen = shakerVoicing{gateHz: vals[1], envExp: vals[2]}.gen
	}
	return gen, duration, nil
}

func boolKnob(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
