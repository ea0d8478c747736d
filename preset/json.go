package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-drums/drum"
)

// File is the JSON schema for effect-preset overrides. Every field is
// optional; present fields are applied on top of the named base preset
// (default "dry").
type File struct {
	Base string `json:"base"`

	PitchBypass *bool    `json:"pitch_bypass"`
	PitchCents  *float64 `json:"pitch_cents"`
	PitchMix    *float64 `json:"pitch_mix"`

	DelayBypass   *bool    `json:"delay_bypass"`
	DelaySeconds  *float64 `json:"delay_seconds"`
	DelayFeedback *float64 `json:"delay_feedback"`
	DelayMix      *float64 `json:"delay_mix"`

	ReverbBypass *bool    `json:"reverb_bypass"`
	ReverbMix    *float64 `json:"reverb_mix"`
}

// LoadJSON loads a preset override file and resolves it to a full
// parameter tuple.
func LoadJSON(path string) (drum.PresetParams, error) {
	var zero drum.PresetParams
	b, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return zero, err
	}

	base := drum.PresetDry
	if name := strings.TrimSpace(f.Base); name != "" {
		base, err = drum.ParsePreset(name)
		if err != nil {
			return zero, err
		}
	}
	p := base.Params()
	if err := ApplyFile(&p, &f); err != nil {
		return zero, err
	}
	return p, nil
}

// ApplyFile applies a parsed override file onto existing parameters.
func ApplyFile(dst *drum.PresetParams, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.PitchBypass != nil {
		dst.PitchBypass = *f.PitchBypass
	}
	if f.PitchCents != nil {
		if *f.PitchCents < -2400 || *f.PitchCents > 2400 {
			return fmt.Errorf("pitch_cents must be in [-2400, 2400]")
		}
		dst.PitchCents = *f.PitchCents
	}
	if f.PitchMix != nil {
		if *f.PitchMix < 0 || *f.PitchMix > 1 {
			return fmt.Errorf("pitch_mix must be in [0, 1]")
		}
		dst.PitchMix = *f.PitchMix
	}

	if f.DelayBypass != nil {
		dst.DelayBypass = *f.DelayBypass
	}
	if f.DelaySeconds != nil {
		if *f.DelaySeconds <= 0 || *f.DelaySeconds > 1 {
			return fmt.Errorf("delay_seconds must be in (0, 1]")
		}
		dst.DelaySeconds = *f.DelaySeconds
	}
	if f.DelayFeedback != nil {
		if *f.DelayFeedback < 0 || *f.DelayFeedback >= 1 {
			return fmt.Errorf("delay_feedback must be in [0, 1)")
		}
		dst.DelayFeedback = *f.DelayFeedback
	}
	if f.DelayMix != nil {
		if *f.DelayMix < 0 || *f.DelayMix > 1 {
			return fmt.Errorf("delay_mix must be in [0, 1]")
		}
		dst.DelayMix = *f.DelayMix
	}

	if f.ReverbBypass != nil {
		dst.ReverbBypass = *f.ReverbBypass
	}
	if f.ReverbMix != nil {
		if *f.ReverbMix < 0 || *f.ReverbMix > 1 {
			return fmt.Errorf("reverb_mix must be in [0, 1]")
		}
		dst.ReverbMix = *f.ReverbMix
	}
	return nil
}
