package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-drums/audioout"
	"github.com/cwbudde/algo-drums/drum"
	"github.com/cwbudde/algo-drums/preset"
)

func main() {
	sampleRate := flag.Int("sample-rate", 44100, "Audio sample rate in Hz")
	bpm := flag.Int("bpm", 120, "Metronome tempo")
	presetPath := flag.String("preset-file", "", "Preset JSON override applied at startup")
	exportPath := flag.String("export", "loop.wav", "Export WAV path for the 'e' key")
	flag.Parse()

	bank, err := drum.NewBank(*sampleRate, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build sound bank: %v\n", err)
		os.Exit(1)
	}
	engine := drum.NewEngine(bank)

	if *presetPath != "" {
		params, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load preset file: %v\n", err)
			os.Exit(1)
		}
		engine.ApplyPresetParams(params)
	}

	out, err := audioout.New(*sampleRate, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open audio device: %v\n", err)
		os.Exit(1)
	}
	out.Start()
	defer out.Close()

	m := newModel(engine, bank, *bpm, *exportPath)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
