package drum

import (
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-drums/internal/audiofile"
)

// mixTail is the fixed settle time appended after the last event so
// its buffer can ring out.
const mixTail = 0.5

// normalizeTarget is the peak the output is scaled down to when the
// accumulated mix clips. Buffers already under unity are left alone;
// normalization is never a gain-up operation.
const normalizeTarget = 0.95

// maxRenderSeconds bounds the output allocation; a loop whose last
// event lies beyond this is treated as an allocation failure rather
// than an attempt to materialize gigabytes of silence.
const maxRenderSeconds = 600

// RenderLoop sums every event of loop into one stereo buffer at the
// bank's sample rate, each event scaled by its pad gain, then
// normalizes down if the accumulated peak exceeds unity. Events whose
// buffer extends past the end are truncated. The render is pure CPU
// work over immutable inputs; callers wanting it off a latency-
// sensitive thread use ExportLoop.
func RenderLoop(loop *Loop, bank *Bank, pack SoundPack, gains [NumSlots]float32) ([]float32, error) {
	if loop.Empty() {
		return nil, ErrEmptyLoop
	}
	if !pack.Valid() {
		pack = PackClassic
	}
	sr := bank.SampleRate()
	total := loop.Duration() + mixTail
	if total > maxRenderSeconds {
		return nil, fmt.Errorf("%w: %.1fs exceeds %ds limit", ErrBufferAllocation, total, maxRenderSeconds)
	}
	frames := int(math.Round(total * float64(sr)))
	out := make([]float32, frames*2)

	for _, ev := range loop.Events {
		src, ok := bank.Lookup(pack, ev.Pad)
		if !ok || ev.At < 0 {
			// Out-of-catalogue events are skipped, matching the live
			// path's silent no-op policy.
			continue
		}
		g := gains[ev.Pad]
		start := int(math.Round(ev.At * float64(sr)))
		srcFrames := len(src) / 2
		for f := 0; f < srcFrames; f++ {
			of := start + f
			if of >= frames {
				break
			}
			out[of*2] += src[f*2] * g
			out[of*2+1] += src[f*2+1] * g
		}
	}

	if peak := maxAbs32(out); peak > 1.0 {
		scale := float32(normalizeTarget) / peak
		for i := range out {
			out[i] *= scale
		}
	}
	return out, nil
}

// ExportResult is delivered to the ExportLoop callback.
type ExportResult struct {
	Path   string
	Frames int
	Err    error
}

// ExportLoop renders loop and serializes it to a 16-bit stereo PCM WAV
// at path, on its own goroutine, reporting through done. An empty loop
// is rejected synchronously before any side effect. outRate of 0 keeps
// the bank's rate; otherwise the mix is resampled. The file is written
// under a temporary name and renamed into place, so a failed export
// leaves nothing behind.
func ExportLoop(loop *Loop, bank *Bank, pack SoundPack, gains [NumSlots]float32, path string, outRate int, done func(ExportResult)) error {
	if loop.Empty() {
		return ErrEmptyLoop
	}
	go func() {
		frames, err := exportLoop(loop, bank, pack, gains, path, outRate)
		if done != nil {
			done(ExportResult{Path: path, Frames: frames, Err: err})
		}
	}()
	return nil
}

func exportLoop(loop *Loop, bank *Bank, pack SoundPack, gains [NumSlots]float32, path string, outRate int) (int, error) {
	mix, err := RenderLoop(loop, bank, pack, gains)
	if err != nil {
		return 0, err
	}
	rate := bank.SampleRate()
	if outRate > 0 && outRate != rate {
		mix, err = audiofile.ResampleStereo(mix, rate, outRate)
		if err != nil {
			return 0, fmt.Errorf("%w: resample: %v", ErrWriteFailed, err)
		}
		rate = outRate
	}

	tmp := path + ".tmp"
	if err := audiofile.WriteStereo(tmp, mix, rate); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return len(mix) / 2, nil
}
