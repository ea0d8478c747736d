// Package loopfile is the JSON interchange format for recorded loops.
// The core treats a loop as an opaque immutable value; this codec
// exists so the cmd tools have a concrete on-disk layout.
package loopfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cwbudde/algo-drums/drum"
)

// File is the JSON schema for a persisted loop.
type File struct {
	ID        string    `json:"id"`
	Events    []Event   `json:"events"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is one persisted pad trigger.
type Event struct {
	Pad int     `json:"pad"`
	At  float64 `json:"t"`
}

// Load reads and validates a loop file. Events merged from another
// source may arrive unordered, so they are sorted by timestamp here;
// the player and mixdown treat ordering as a precondition.
func Load(path string) (*drum.Loop, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	loop := &drum.Loop{
		ID:        f.ID,
		CreatedAt: f.CreatedAt,
		Events:    make([]drum.LoopEvent, 0, len(f.Events)),
	}
	for i, ev := range f.Events {
		if !drum.ValidPad(ev.Pad) {
			return nil, fmt.Errorf("event %d: pad id %d outside catalogue", i, ev.Pad)
		}
		if ev.At < 0 {
			return nil, fmt.Errorf("event %d: negative timestamp %f", i, ev.At)
		}
		loop.Events = append(loop.Events, drum.LoopEvent{Pad: ev.Pad, At: ev.At})
	}
	sort.SliceStable(loop.Events, func(a, b int) bool {
		return loop.Events[a].At < loop.Events[b].At
	})
	return loop, nil
}

// Save writes a loop as indented JSON.
func Save(path string, loop *drum.Loop) error {
	f := File{
		ID:        loop.ID,
		CreatedAt: loop.CreatedAt,
		Events:    make([]Event, 0, len(loop.Events)),
	}
	for _, ev := range loop.Events {
		f.Events = append(f.Events, Event{Pad: ev.Pad, At: ev.At})
	}
	b, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
