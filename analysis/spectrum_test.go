package analysis

import (
	"math"
	"math/rand"
	"testing"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestSpectrumPeaksAtToneBin(t *testing.T) {
	const sr = 8192
	const fftSize = 2048
	x := sine(1024, sr, fftSize)
	mags, err := Spectrum(x, fftSize)
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	peak := 0
	for k := 1; k < len(mags); k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}
	wantBin := int(1024.0 / (float64(sr) / fftSize))
	if diff := peak - wantBin; diff < -1 || diff > 1 {
		t.Fatalf("peak at bin %d, want near %d", peak, wantBin)
	}
}

func TestSpectrumRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, 8, 100, 1000} {
		if _, err := Spectrum(sine(440, 8000, 256), size); err == nil {
			t.Fatalf("expected error for fft size %d", size)
		}
	}
}

func TestSpectralCentroidOrdersBrightness(t *testing.T) {
	const sr = 44100
	low, err := SpectralCentroid(sine(100, sr, 8192), sr)
	if err != nil {
		t.Fatalf("low centroid: %v", err)
	}
	high, err := SpectralCentroid(sine(6000, sr, 8192), sr)
	if err != nil {
		t.Fatalf("high centroid: %v", err)
	}
	if high <= low {
		t.Fatalf("centroid ordering: low=%.1f high=%.1f", low, high)
	}
	if low < 50 || low > 400 {
		t.Fatalf("low tone centroid %.1f Hz outside expected range", low)
	}
}

func TestSpectralCentroidSilence(t *testing.T) {
	c, err := SpectralCentroid(make([]float64, 4096), 44100)
	if err != nil {
		t.Fatalf("SpectralCentroid: %v", err)
	}
	if c != 0 {
		t.Fatalf("silence centroid %.3f, want 0", c)
	}
}

func TestBandEnergyIsolatesTone(t *testing.T) {
	const sr = 44100
	x := sine(1000, sr, 8192)
	in, err := BandEnergy(x, sr, 800, 1200)
	if err != nil {
		t.Fatalf("BandEnergy: %v", err)
	}
	out, err := BandEnergy(x, sr, 5000, 9000)
	if err != nil {
		t.Fatalf("BandEnergy: %v", err)
	}
	if in <= out*10 {
		t.Fatalf("tone band energy %.4g not dominant over distant band %.4g", in, out)
	}
}

func TestCompareIdenticalScoresZero(t *testing.T) {
	const sr = 44100
	rng := rand.New(rand.NewSource(3))
	x := make([]float64, sr/4)
	for i := range x {
		env := math.Exp(-8 * float64(i) / float64(sr))
		x[i] = (2*rng.Float64() - 1) * env
	}
	m := Compare(x, x, sr)
	if m.Score > 1e-9 {
		t.Fatalf("identical inputs score %.6f, want 0", m.Score)
	}
	if m.Similarity < 0.999 {
		t.Fatalf("identical inputs similarity %.6f, want ~1", m.Similarity)
	}
}

func TestCompareLevelInvariant(t *testing.T) {
	const sr = 44100
	x := sine(440, sr, sr/4)
	scaled := make([]float64, len(x))
	for i := range x {
		scaled[i] = x[i] * 0.1
	}
	m := Compare(x, scaled, sr)
	if m.Score > 1e-3 {
		t.Fatalf("pure level change scored %.6f, want ~0", m.Score)
	}
}

func TestCompareDistinguishesTimbres(t *testing.T) {
	const sr = 44100
	rng := rand.New(rand.NewSource(5))
	noise := make([]float64, sr/4)
	for i := range noise {
		noise[i] = 2*rng.Float64() - 1
	}
	tone := sine(220, sr, sr/4)

	same := Compare(tone, tone, sr)
	diff := Compare(tone, noise, sr)
	if diff.Score <= same.Score {
		t.Fatalf("noise vs tone score %.4f not above identical score %.4f", diff.Score, same.Score)
	}
	if diff.Score <= 0.05 {
		t.Fatalf("dissimilar signals scored too close to zero: %.4f", diff.Score)
	}
}

func TestCompareDegenerateInputs(t *testing.T) {
	if m := Compare(nil, sine(440, 8000, 100), 8000); m.Score != 1 {
		t.Fatalf("empty reference score %.3f, want 1", m.Score)
	}
	if m := Compare(make([]float64, 1000), sine(440, 8000, 1000), 8000); m.Score != 1 {
		t.Fatalf("silent reference score %.3f, want 1", m.Score)
	}
}
