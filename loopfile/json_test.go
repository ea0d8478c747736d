package loopfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-drums/drum"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	loop := &drum.Loop{
		ID:        "loop-42",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Events: []drum.LoopEvent{
			{Pad: drum.PadKick, At: 0},
			{Pad: drum.PadSnare, At: 0.25},
			{Pad: drum.PadVocal, At: 0.5},
		},
	}
	path := filepath.Join(t.TempDir(), "loop.json")
	if err := Save(path, loop); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != loop.ID || !got.CreatedAt.Equal(loop.CreatedAt) {
		t.Fatalf("identity mismatch: %+v", got)
	}
	if len(got.Events) != len(loop.Events) {
		t.Fatalf("got %d events, want %d", len(got.Events), len(loop.Events))
	}
	for i := range loop.Events {
		if got.Events[i] != loop.Events[i] {
			t.Fatalf("event %d: got %+v, want %+v", i, got.Events[i], loop.Events[i])
		}
	}
}

func TestLoadSortsUnorderedEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.json")
	raw := `{"id":"x","events":[{"pad":1,"t":0.5},{"pad":0,"t":0.0},{"pad":2,"t":0.25}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	loop, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 1; i < len(loop.Events); i++ {
		if loop.Events[i].At < loop.Events[i-1].At {
			t.Fatalf("events not sorted: %+v", loop.Events)
		}
	}
	if loop.Events[0].Pad != 0 || loop.Events[2].Pad != 1 {
		t.Fatalf("unexpected order after sort: %+v", loop.Events)
	}
}

func TestLoadRejectsInvalidEvents(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad-pad":  `{"id":"x","events":[{"pad":99,"t":0}]}`,
		"negative": `{"id":"x","events":[{"pad":0,"t":-0.5}]}`,
		"garbage":  `{"events": nope}`,
	}
	for name, raw := range cases {
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatalf("setup %s: %v", name, err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected load error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
