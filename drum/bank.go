package drum

import (
	"fmt"
	"math/rand"
)

// Bank holds the pre-rendered buffer for every (pack, pad) pair plus
// the two utility sounds. It is built once and read-only afterward, so
// it can be shared across goroutines without locking.
type Bank struct {
	sampleRate int
	pads       [numPacks][NumPads][]float32
	utility    [2][]float32
}

// NewBank renders all packs at the given sample rate. The rng seeds the
// noise component of every buffer; pass nil for live use.
func NewBank(sampleRate int, rng *rand.Rand) (*Bank, error) {
	b := &Bank{sampleRate: sampleRate}
	for _, pack := range Packs() {
		for pad := 0; pad < NumPads; pad++ {
			buf, err := Synthesize(pack, pad, sampleRate, rng)
			if err != nil {
				return nil, fmt.Errorf("render %s pad %d: %w", pack, pad, err)
			}
			b.pads[pack][pad] = buf
		}
	}
	// Utility sounds are pack-independent; render them once.
	for i, pad := range []int{PadVocal, PadClick} {
		buf, err := Synthesize(PackClassic, pad, sampleRate, rng)
		if err != nil {
			return nil, fmt.Errorf("render utility %d: %w", pad, err)
		}
		b.utility[i] = buf
	}
	return b, nil
}

// SampleRate returns the rate every buffer was rendered at.
func (b *Bank) SampleRate() int {
	return b.sampleRate
}

// Lookup returns the buffer for (pack, pad). Utility pads resolve
// independently of pack. ok is false only for ids outside the fixed
// catalogue, which is a programming error, not a runtime condition.
func (b *Bank) Lookup(pack SoundPack, pad int) ([]float32, bool) {
	switch {
	case pad == PadVocal:
		return b.utility[0], true
	case pad == PadClick:
		return b.utility[1], true
	case pad >= 0 && pad < NumPads && pack.Valid():
		return b.pads[pack][pad], true
	default:
		return nil, false
	}
}
