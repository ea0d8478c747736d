package drum

import (
	"errors"
	"testing"
	"time"
)

// newManualPlayer returns a player driven by explicit step() calls
// instead of the poll ticker.
func newManualPlayer(clk Clock) *Player {
	p := NewPlayer(clk)
	p.interval = 0
	return p
}

func testLoop() *Loop {
	return &Loop{
		ID: "loop-test",
		Events: []LoopEvent{
			{Pad: PadKick, At: 0},
			{Pad: PadSnare, At: 0.05},
			{Pad: PadKick, At: 0.06},
		},
	}
}

func TestPlayerRejectsEmptyLoop(t *testing.T) {
	p := newManualPlayer(newManualClock())
	err := p.Play(&Loop{}, func(int) {}, false)
	if !errors.Is(err, ErrEmptyLoop) {
		t.Fatalf("got %v, want ErrEmptyLoop", err)
	}
	if p.Playing() {
		t.Fatal("player must stay idle after a rejected Play")
	}
}

func TestPlayerDispatchesInOrderExactlyOnce(t *testing.T) {
	clk := newManualClock()
	p := newManualPlayer(clk)

	var got []int
	if err := p.Play(testLoop(), func(pad int) { got = append(got, pad) }, false); err != nil {
		t.Fatalf("Play: %v", err)
	}

	p.step() // t=0: first event due immediately
	clk.advance(50 * time.Millisecond)
	p.step()
	clk.advance(10 * time.Millisecond)
	p.step()

	want := []int{PadKick, PadSnare, PadKick}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch order: got %v, want %v", got, want)
		}
	}
	if p.Playing() {
		t.Fatal("one-shot playback must stop after the last event")
	}

	// Further steps must not redeliver.
	clk.advance(time.Second)
	p.step()
	if len(got) != len(want) {
		t.Fatalf("events redelivered: %v", got)
	}
}

// A late tick drains every due event in one burst, in stored order.
func TestPlayerBurstDispatchOnLateTick(t *testing.T) {
	clk := newManualClock()
	p := newManualPlayer(clk)

	var got []int
	if err := p.Play(testLoop(), func(pad int) { got = append(got, pad) }, false); err != nil {
		t.Fatalf("Play: %v", err)
	}

	clk.advance(500 * time.Millisecond)
	p.step()

	want := []int{PadKick, PadSnare, PadKick}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("burst order: got %v, want %v", got, want)
		}
	}
}

func TestPlayerCyclicRepeatsAfterGap(t *testing.T) {
	clk := newManualClock()
	p := newManualPlayer(clk)

	var got []int
	if err := p.Play(testLoop(), func(pad int) { got = append(got, pad) }, true); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// First pass: duration 0.06s, then the fixed 0.5s gap.
	clk.advance(100 * time.Millisecond)
	p.step()
	if len(got) != 3 {
		t.Fatalf("first pass delivered %d events, want 3", len(got))
	}

	// Still inside the gap: nothing new.
	clk.advance(300 * time.Millisecond)
	p.step()
	if len(got) != 3 {
		t.Fatalf("gap delivered extra events: %v", got)
	}

	// Past duration+gap (0.56s): the sequence restarts from the top.
	clk.advance(200 * time.Millisecond) // elapsed 0.6s, local 0.04s
	p.step()
	if len(got) != 4 || got[3] != PadKick {
		t.Fatalf("second pass start: got %v", got)
	}
	clk.advance(30 * time.Millisecond) // local 0.07s, rest of pass due
	p.step()
	if len(got) != 6 {
		t.Fatalf("second pass delivered %d events, want 6", len(got))
	}
	if !p.Playing() {
		t.Fatal("cyclic playback must keep running")
	}
}

func TestPlayerStopIdempotent(t *testing.T) {
	p := newManualPlayer(newManualClock())
	p.Stop()
	if err := p.Play(testLoop(), func(int) {}, true); err != nil {
		t.Fatalf("Play: %v", err)
	}
	p.Stop()
	p.Stop()
	if p.Playing() {
		t.Fatal("expected idle after Stop")
	}
}

func TestPlayerRestartReplacesLoop(t *testing.T) {
	clk := newManualClock()
	p := newManualPlayer(clk)

	var got []int
	record := func(pad int) { got = append(got, pad) }

	if err := p.Play(testLoop(), record, false); err != nil {
		t.Fatalf("first Play: %v", err)
	}
	second := &Loop{ID: "other", Events: []LoopEvent{{Pad: PadClap, At: 0}}}
	if err := p.Play(second, record, false); err != nil {
		t.Fatalf("second Play: %v", err)
	}
	p.step()
	if len(got) != 1 || got[0] != PadClap {
		t.Fatalf("got %v, want only the replacement loop's event", got)
	}
}
