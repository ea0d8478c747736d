package drum

import (
	"math"
	"math/rand"
	"testing"
)

func TestSynthesizeBufferLengths(t *testing.T) {
	const sr = 44100
	for _, pack := range Packs() {
		want := int(math.Round(float64(sr) * pack.PadDuration()))
		for pad := 0; pad < NumPads; pad++ {
			buf, err := Synthesize(pack, pad, sr, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("Synthesize(%s, %d): %v", pack, pad, err)
			}
			if len(buf) != want*2 {
				t.Fatalf("%s pad %d: got %d samples, want %d", pack, pad, len(buf), want*2)
			}
		}
	}
}

func TestSynthesizeUtilityDurations(t *testing.T) {
	const sr = 48000
	vocal, err := Synthesize(PackClassic, PadVocal, sr, nil)
	if err != nil {
		t.Fatalf("vocal: %v", err)
	}
	if got, want := len(vocal)/2, int(math.Round(sr*0.15)); got != want {
		t.Fatalf("vocal frames: got %d, want %d", got, want)
	}
	click, err := Synthesize(PackClassic, PadClick, sr, nil)
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if got, want := len(click)/2, int(math.Round(sr*0.05)); got != want {
		t.Fatalf("click frames: got %d, want %d", got, want)
	}
}

func TestSynthesizeChannelsIdenticalAndBounded(t *testing.T) {
	buf, err := Synthesize(PackElectro, PadSnare, 44100, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	maxAbs := 0.0
	energy := 0.0
	for f := 0; f < len(buf)/2; f++ {
		l, r := buf[f*2], buf[f*2+1]
		if l != r {
			t.Fatalf("channel mismatch at frame %d: %g vs %g", f, l, r)
		}
		if math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
			t.Fatalf("non-finite sample at frame %d", f)
		}
		a := math.Abs(float64(l))
		if a > maxAbs {
			maxAbs = a
		}
		energy += float64(l * l)
	}
	if energy <= 1e-8 {
		t.Fatal("expected non-zero energy")
	}
	// Headroom scaling on a tanh-clipped signal keeps the peak under 0.7.
	if maxAbs > 0.7 {
		t.Fatalf("peak %.4f exceeds headroom", maxAbs)
	}
}

func TestSynthesizeDeterministicForSeed(t *testing.T) {
	a, err := Synthesize(PackVinyl, PadHiHat, 32000, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("first Synthesize: %v", err)
	}
	b, err := Synthesize(PackVinyl, PadHiHat, 32000, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("second Synthesize: %v", err)
	}
	if len(a) != len(b) {
		t.Fatal("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at index %d", i)
		}
	}
}

func TestSynthesizeKickDecays(t *testing.T) {
	const sr = 44100
	buf, err := Synthesize(PackClassic, PadKick, sr, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	frames := len(buf) / 2
	head := blockRMS(buf, 0, frames/4)
	tail := blockRMS(buf, frames*3/4, frames)
	if tail >= head*0.5 {
		t.Fatalf("expected decaying envelope: head RMS %.5f, tail RMS %.5f", head, tail)
	}
}

func TestSynthesizeRejectsInvalidInputs(t *testing.T) {
	if _, err := Synthesize(PackClassic, PadKick, 0, nil); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := Synthesize(PackClassic, NumSlots, 44100, nil); err == nil {
		t.Fatal("expected error for out-of-catalogue pad")
	}
	if _, err := Synthesize(SoundPack(99), PadKick, 44100, nil); err == nil {
		t.Fatal("expected error for invalid pack")
	}
}

// Utility sounds ignore the pack argument entirely.
func TestSynthesizeUtilityPackIndependent(t *testing.T) {
	a, err := Synthesize(PackClassic, PadClick, 44100, nil)
	if err != nil {
		t.Fatalf("classic click: %v", err)
	}
	b, err := Synthesize(PackRetro, PadClick, 44100, nil)
	if err != nil {
		t.Fatalf("retro click: %v", err)
	}
	if len(a) != len(b) {
		t.Fatal("click length differs across packs")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("click differs across packs at index %d", i)
		}
	}
}

func blockRMS(buf []float32, from, to int) float64 {
	sum := 0.0
	n := 0
	for f := from; f < to; f++ {
		v := float64(buf[f*2])
		sum += v * v
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}
