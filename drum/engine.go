package drum

import (
	"log"
	"sync"
)

// Engine is the live playback mixer. One transient voice exists per
// catalogue slot; triggering a pad restarts that pad's own voice
// (voice-stealing is per-pad, never global). Pad voices route through
// the effect chain; the two utility voices join after it.
//
// All mutators are non-blocking and safe to call from the input
// thread while Process runs on the audio callback.
type Engine struct {
	mu sync.Mutex

	bank       *Bank
	sampleRate int
	chain      *Chain

	pack       SoundPack
	preset     EffectPreset
	masterGain float32
	padGains   [NumSlots]float32

	voices [NumSlots]voice
}

// voice is the transient playback state for one slot. The gain is
// captured at trigger time, so pad-gain changes only affect subsequent
// triggers; master gain is applied continuously at the output stage.
type voice struct {
	buf    []float32
	pos    int
	gain   float32
	active bool
}

// NewEngine wraps a built bank. The engine starts on PackClassic with
// the dry preset, unity master gain, and unity pad gains.
func NewEngine(bank *Bank) *Engine {
	e := &Engine{
		bank:       bank,
		sampleRate: bank.SampleRate(),
		chain:      NewChain(bank.SampleRate()),
		pack:       PackClassic,
		preset:     PresetDry,
		masterGain: 1.0,
	}
	for i := range e.padGains {
		e.padGains[i] = 1.0
	}
	return e
}

// Trigger starts (or restarts) the voice for pad. An id outside the
// catalogue is a logged no-op: on the live path a dropped hit beats an
// interrupted performance.
func (e *Engine) Trigger(pad int) {
	if !ValidPad(pad) {
		log.Printf("drum: trigger for pad %d outside catalogue ignored", pad)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	buf, ok := e.bank.Lookup(e.pack, pad)
	if !ok {
		return
	}
	e.voices[pad] = voice{
		buf:    buf,
		pos:    0,
		gain:   e.padGains[pad],
		active: true,
	}
}

// StopAll silences every voice immediately. Idempotent.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		e.voices[i].active = false
	}
}

// SetPack switches which pre-rendered buffers future triggers select.
// No audio is regenerated; in-flight voices keep their buffer.
func (e *Engine) SetPack(pack SoundPack) {
	if !pack.Valid() {
		return
	}
	e.mu.Lock()
	e.pack = pack
	e.mu.Unlock()
}

// Pack returns the currently selected sound pack.
func (e *Engine) Pack() SoundPack {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pack
}

// SetPreset applies an effect preset to the chain. Stage mixes and
// bypass gates act at the output stage, so they affect in-flight audio.
func (e *Engine) SetPreset(p EffectPreset) {
	if !p.Valid() {
		return
	}
	e.mu.Lock()
	e.preset = p
	e.chain.Apply(p.Params())
	e.mu.Unlock()
}

// ApplyPresetParams assigns a custom parameter tuple (e.g. from a
// preset override file) to the chain, leaving the named preset as-is.
func (e *Engine) ApplyPresetParams(p PresetParams) {
	e.mu.Lock()
	e.chain.Apply(p)
	e.mu.Unlock()
}

// Preset returns the active effect preset.
func (e *Engine) Preset() EffectPreset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preset
}

// SetMasterGain sets the continuously-applied output gain.
func (e *Engine) SetMasterGain(g float32) {
	e.mu.Lock()
	e.masterGain = clampf(g, 0, 4)
	e.mu.Unlock()
}

// MasterGain returns the output gain.
func (e *Engine) MasterGain() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.masterGain
}

// SetPadGain sets the gain captured by future triggers of pad.
func (e *Engine) SetPadGain(pad int, g float32) {
	if !ValidPad(pad) {
		return
	}
	e.mu.Lock()
	e.padGains[pad] = clampf(g, 0, 4)
	e.mu.Unlock()
}

// PadGain returns the configured gain for pad (0 for invalid ids).
func (e *Engine) PadGain(pad int) float32 {
	if !ValidPad(pad) {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.padGains[pad]
}

// PadGains returns a copy of all slot gains, e.g. for offline mixdown.
func (e *Engine) PadGains() [NumSlots]float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.padGains
}

// SampleRate returns the engine's working sample rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Process renders a block of stereo interleaved samples. Pad voices
// are summed into the effect bus, utility voices into a parallel dry
// bus; both channels carry the same mono signal, matching generation.
func (e *Engine) Process(numFrames int) []float32 {
	out := make([]float32, numFrames*2)

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < numFrames; i++ {
		var bus, dry float32
		for slot := range e.voices {
			v := &e.voices[slot]
			if !v.active {
				continue
			}
			s := v.buf[v.pos*2] * v.gain
			v.pos++
			if v.pos*2 >= len(v.buf) {
				v.active = false
			}
			if UtilityPad(slot) {
				dry += s
			} else {
				bus += s
			}
		}
		s := (e.chain.Process(bus) + dry) * e.masterGain
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}
