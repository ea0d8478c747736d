package audiofile

import (
	"math"
	"path/filepath"
	"testing"
)

func testTone(freq float64, sampleRate, frames int) []float32 {
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		s := float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

func TestWriteReadRoundTrip(t *testing.T) {
	const sr = 8000
	const frames = 4000
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := WriteStereo(path, testTone(440, sr, frames), sr); err != nil {
		t.Fatalf("WriteStereo: %v", err)
	}

	mono, gotSR, err := ReadMono(path)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if gotSR != sr {
		t.Fatalf("sample rate %d, want %d", gotSR, sr)
	}
	if len(mono) != frames {
		t.Fatalf("got %d frames, want %d", len(mono), frames)
	}
	var energy float64
	for _, v := range mono {
		energy += v * v
	}
	if energy == 0 {
		t.Fatal("decoded audio is silent")
	}
}

func TestWriteStereoCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.wav")
	if err := WriteStereo(path, testTone(220, 8000, 100), 8000); err != nil {
		t.Fatalf("WriteStereo: %v", err)
	}
	if _, _, err := ReadMono(path); err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
}

func TestReadMonoRejectsGarbage(t *testing.T) {
	if _, _, err := ReadMono(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResampleStereoChangesLength(t *testing.T) {
	const frames = 8000
	in := testTone(440, 8000, frames)
	out, err := ResampleStereo(in, 8000, 16000)
	if err != nil {
		t.Fatalf("ResampleStereo: %v", err)
	}
	gotFrames := len(out) / 2
	// Doubling the rate should roughly double the frame count.
	if gotFrames < frames*18/10 || gotFrames > frames*22/10 {
		t.Fatalf("got %d frames, want near %d", gotFrames, frames*2)
	}
}

func TestResampleStereoIdentity(t *testing.T) {
	in := testTone(440, 8000, 100)
	out, err := ResampleStereo(in, 8000, 8000)
	if err != nil {
		t.Fatalf("ResampleStereo: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("identity resample changed length: %d -> %d", len(in), len(out))
	}
}

func TestStereoToMonoAverages(t *testing.T) {
	st := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := StereoToMono(st)
	want := []float64{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("got %d frames, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(mono[i]-want[i]) > 1e-9 {
			t.Fatalf("frame %d: got %g, want %g", i, mono[i], want[i])
		}
	}
}
