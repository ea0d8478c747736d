// Package analysis provides the spectral and envelope measurements the
// synthesis tests and the drum-fit objective are built on.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrum computes the Hann-windowed magnitude spectrum of the first
// fftSize samples of x (zero-padded if shorter). The result has
// fftSize/2 bins; bin k covers k*sampleRate/fftSize Hz.
func Spectrum(x []float64, fftSize int) ([]float64, error) {
	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 16, got %d", fftSize)
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, err
	}

	buf := make([]float64, fftSize)
	n := len(x)
	if n > fftSize {
		n = fftSize
	}
	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = x[i] * w
	}

	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	mags := make([]float64, fftSize/2)
	for k := range mags {
		mags[k] = cmplx.Abs(spec[k])
	}
	return mags, nil
}

// SpectralCentroid returns the magnitude-weighted mean frequency in Hz,
// a robust brightness measure: hi-hats and cymbals sit far above kicks.
func SpectralCentroid(x []float64, sampleRate int) (float64, error) {
	const fftSize = 4096
	mags, err := Spectrum(x, fftSize)
	if err != nil {
		return 0, err
	}
	binHz := float64(sampleRate) / fftSize
	var num, den float64
	for k := 1; k < len(mags); k++ {
		num += float64(k) * binHz * mags[k]
		den += mags[k]
	}
	if den <= 1e-12 {
		return 0, nil
	}
	return num / den, nil
}

// BandEnergy sums spectral energy between loHz and hiHz.
func BandEnergy(x []float64, sampleRate int, loHz, hiHz float64) (float64, error) {
	const fftSize = 4096
	mags, err := Spectrum(x, fftSize)
	if err != nil {
		return 0, err
	}
	binHz := float64(sampleRate) / fftSize
	loK := int(loHz / binHz)
	hiK := int(hiHz / binHz)
	if loK < 1 {
		loK = 1
	}
	if hiK >= len(mags) {
		hiK = len(mags) - 1
	}
	var sum float64
	for k := loK; k <= hiK; k++ {
		sum += mags[k] * mags[k]
	}
	return sum, nil
}

// Metrics contains distance measurements between two drum hits.
type Metrics struct {
	SampleRate      int     `json:"sample_rate"`
	ReferenceFrames int     `json:"reference_frames"`
	CandidateFrames int     `json:"candidate_frames"`
	EnvelopeRMSEDB  float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB  float64 `json:"spectral_rmse_db"`
	Score           float64 `json:"score"`
	Similarity      float64 `json:"similarity"`
}

// Compare returns objective distance metrics and a combined score in
// [0,1] (0 = identical). Both signals are RMS-normalized first, so the
// score measures shape and spectrum, not level.
func Compare(reference, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		m.Score = 1.0
		return m
	}

	ref := normalizeRMS(trimLeadingSilence(reference, 1e-6), 0.1)
	cand := normalizeRMS(trimLeadingSilence(candidate, 1e-6), 0.1)
	if len(ref) == 0 || len(cand) == 0 {
		m.Score = 1.0
		return m
	}

	refEnv := rmsEnvelope(ref, 256, 128)
	candEnv := rmsEnvelope(cand, 256, 128)
	envN := len(refEnv)
	if len(candEnv) < envN {
		envN = len(candEnv)
	}
	if envN > 0 {
		var sum float64
		for i := 0; i < envN; i++ {
			d := linToDB(refEnv[i]) - linToDB(candEnv[i])
			sum += d * d
		}
		m.EnvelopeRMSEDB = math.Sqrt(sum / float64(envN))
	}

	m.SpectralRMSEDB = spectralRMSEDB(ref, cand)

	envNorm := clamp01(m.EnvelopeRMSEDB / 30.0)
	specNorm := clamp01(m.SpectralRMSEDB / 30.0)
	m.Score = clamp01(0.45*envNorm + 0.55*specNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

func spectralRMSEDB(a, b []float64) float64 {
	const fftSize = 2048
	ma, errA := Spectrum(a, fftSize)
	mb, errB := Spectrum(b, fftSize)
	if errA != nil || errB != nil {
		return 0
	}
	var sum float64
	n := 0
	for k := 1; k < len(ma); k++ {
		d := linToDB(ma[k]) - linToDB(mb[k])
		sum += d * d
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i := 0; i < len(x); i++ {
		if math.Abs(x[i]) > threshold {
			return x[i:]
		}
	}
	return nil
}

func normalizeRMS(x []float64, target float64) []float64 {
	if len(x) == 0 {
		return x
	}
	r := rms(x)
	if r <= 1e-12 {
		return append([]float64(nil), x...)
	}
	g := target / r
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms(x[start : start+frame])
	}
	return out
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
