package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/cwbudde/algo-drums/drum"
	"github.com/cwbudde/algo-drums/internal/audiofile"
	"github.com/cwbudde/algo-drums/loopfile"
)

func main() {
	loopPath := flag.String("loop", "", "Loop JSON file to render")
	packName := flag.String("pack", "classic", "Sound pack: classic|electro|vinyl|retro")
	pad := flag.Int("pad", -1, "Render a single pad hit instead of a loop (0-9)")
	sampleRate := flag.Int("sample-rate", 44100, "Render sample rate in Hz")
	outRate := flag.Int("output-rate", 0, "Resample output to this rate (0 = keep render rate)")
	gain := flag.Float64("gain", 1.0, "Uniform pad gain applied during mixdown")
	seed := flag.Int64("seed", 0, "Noise seed (0 = time-based)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	pack, err := drum.ParsePack(*packName)
	if err != nil {
		die("%v", err)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}
	bank, err := drum.NewBank(*sampleRate, rng)
	if err != nil {
		die("build sound bank: %v", err)
	}

	// Single pad hit: bypass the loop machinery entirely.
	if *pad >= 0 {
		buf, ok := bank.Lookup(pack, *pad)
		if !ok {
			die("pad id %d outside catalogue", *pad)
		}
		if err := audiofile.WriteStereo(*output, buf, *sampleRate); err != nil {
			die("write %s: %v", *output, err)
		}
		fmt.Printf("Wrote %s (%d frames, pack %s, pad %d)\n", *output, len(buf)/2, pack, *pad)
		return
	}

	if *loopPath == "" {
		die("either -loop or -pad is required")
	}
	loop, err := loopfile.Load(*loopPath)
	if err != nil {
		die("load loop: %v", err)
	}

	var gains [drum.NumSlots]float32
	for i := range gains {
		gains[i] = float32(*gain)
	}

	done := make(chan drum.ExportResult, 1)
	err = drum.ExportLoop(loop, bank, pack, gains, *output, *outRate, func(res drum.ExportResult) {
		done <- res
	})
	if err != nil {
		die("export: %v", err)
	}
	res := <-done
	if res.Err != nil {
		die("export: %v", res.Err)
	}
	fmt.Printf("Wrote %s (%d frames, %d events, pack %s)\n", res.Path, res.Frames, len(loop.Events), pack)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
