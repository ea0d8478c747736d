// Command drum-fit tunes one pad's synthesis knobs against a reference
// recording using the Mayfly optimizer family. The objective renders a
// candidate hit at the reference sample rate and scores it with the
// envelope/spectral distance from the analysis package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-drums/analysis"
	"github.com/cwbudde/algo-drums/drum"
	"github.com/cwbudde/algo-drums/internal/audiofile"
)

type fitReport struct {
	Reference      string             `json:"reference"`
	Pad            int                `json:"pad"`
	Pack           string             `json:"pack"`
	Variant        string             `json:"variant"`
	SampleRate     int                `json:"sample_rate"`
	Evals          int                `json:"evals"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	BestScore      float64            `json:"best_score"`
	BestSimilarity float64            `json:"best_similarity"`
	BestKnobs      map[string]float64 `json:"best_knobs"`
}

func main() {
	referencePath := flag.String("reference", "", "Reference WAV path (required)")
	pad := flag.Int("pad", drum.PadKick, "Pad id to fit (0-7)")
	packName := flag.String("pack", "classic", "Sound pack providing the starting voicing")
	output := flag.String("output", "fitted.json", "Path to write the best knobs report JSON")
	outputWAV := flag.String("output-wav", "", "Optional path to write the best candidate WAV")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 50, "Print progress every N evaluations")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Parse()

	if *referencePath == "" {
		die("--reference is required")
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}
	if *reportEvery < 1 {
		*reportEvery = 1
	}
	variant := strings.ToLower(*mayflyVariant)
	pop := *mayflyPop
	every := *reportEvery

	pack, err := drum.ParsePack(*packName)
	if err != nil {
		die("%v", err)
	}
	defs, initVals, err := drum.FitKnobs(pack, *pad)
	if err != nil {
		die("%v", err)
	}

	// Candidates are rendered at the reference's native rate, so no
	// resampling enters the objective.
	reference, sampleRate, err := audiofile.ReadMono(*referencePath)
	if err != nil {
		die("read reference: %v", err)
	}

	start := time.Now()
	deadline := start.Add(time.Duration(*timeBudget * float64(time.Second)))

	bestVals := append([]float64(nil), initVals...)
	bestMetrics := evaluate(reference, sampleRate, *pad, bestVals, *seed)
	evals := 1
	rounds := 0

	for time.Now().Before(deadline) && evals < *maxEvals {
		rounds++
		budget := minInt(*mayflyRoundEvals, *maxEvals-evals)
		iters := maxInt(1, budget/(2*pop))

		cfg, err := newMayflyConfig(variant, pop, len(defs), iters)
		if err != nil {
			die("mayfly setup: %v", err)
		}
		cfg.Rand = rand.New(rand.NewSource(*seed + int64(rounds)*7919))
		cfg.ObjectiveFunc = func(pos []float64) float64 {
			if time.Now().After(deadline) || evals >= *maxEvals {
				return bestMetrics.Score + 1.0
			}
			evals++
			vals := fromNormalized(pos, defs)
			m := evaluate(reference, sampleRate, *pad, vals, *seed)
			if m.Score < bestMetrics.Score {
				bestMetrics = m
				bestVals = append([]float64(nil), vals...)
				fmt.Printf("Improved eval=%d score=%.4f sim=%.2f%%\n", evals, m.Score, m.Similarity*100.0)
			}
			if evals%every == 0 {
				fmt.Printf("Progress eval=%d/%d elapsed=%.1fs best=%.4f\n", evals, *maxEvals, time.Since(start).Seconds(), bestMetrics.Score)
			}
			return m.Score
		}

		if _, err := runMayfly(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", rounds, err)
		}
	}

	knobs := make(map[string]float64, len(defs))
	for i, d := range defs {
		knobs[d.Name] = bestVals[i]
	}
	report := fitReport{
		Reference:      *referencePath,
		Pad:            *pad,
		Pack:           pack.String(),
		Variant:        variant,
		SampleRate:     sampleRate,
		Evals:          evals,
		ElapsedSeconds: time.Since(start).Seconds(),
		BestScore:      bestMetrics.Score,
		BestSimilarity: bestMetrics.Similarity,
		BestKnobs:      knobs,
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		die("encode report: %v", err)
	}
	if err := os.WriteFile(*output, b, 0o644); err != nil {
		die("write report: %v", err)
	}

	if *outputWAV != "" {
		buf, err := drum.SynthesizeKnobs(*pad, bestVals, sampleRate, rand.New(rand.NewSource(*seed)))
		if err != nil {
			die("render best candidate: %v", err)
		}
		if err := audiofile.WriteStereo(*outputWAV, buf, sampleRate); err != nil {
			die("write %s: %v", *outputWAV, err)
		}
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best_score=%.4f best_similarity=%.2f%% variant=%s\n",
		evals, time.Since(start).Seconds(), bestMetrics.Score, bestMetrics.Similarity*100.0, variant)
}

// evaluate renders a candidate with a fixed noise seed so the
// objective stays deterministic across evaluations.
func evaluate(reference []float64, sampleRate, pad int, vals []float64, seed int64) analysis.Metrics {
	buf, err := drum.SynthesizeKnobs(pad, vals, sampleRate, rand.New(rand.NewSource(seed)))
	if err != nil {
		return analysis.Metrics{Score: math.Inf(1)}
	}
	return analysis.Compare(reference, audiofile.StereoToMono(buf), sampleRate)
}

func fromNormalized(pos []float64, defs []drum.KnobDef) []float64 {
	vals := make([]float64, len(defs))
	for i, d := range defs {
		p := pos[i]
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		v := d.Min + p*(d.Max-d.Min)
		if d.IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return vals
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
