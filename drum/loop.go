package drum

import (
	"fmt"
	"sync"
	"time"
)

// Clock abstracts the monotonic time reference used by the recorder
// and the player so tests can drive them without wall-clock sleeps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}

// LoopEvent is one captured pad trigger, timestamped in seconds
// relative to the start of the recording.
type LoopEvent struct {
	Pad int
	At  float64
}

// Loop is an ordered, timestamped recording of pad triggers. It is
// append-only while a recording session is active and immutable once
// the session stops.
type Loop struct {
	ID        string
	Events    []LoopEvent
	CreatedAt time.Time
}

// Duration is derived from the events so it can never drift from them.
func (l *Loop) Duration() float64 {
	var max float64
	for _, ev := range l.Events {
		if ev.At > max {
			max = ev.At
		}
	}
	return max
}

// Empty reports whether the loop recorded no events.
func (l *Loop) Empty() bool {
	return l == nil || len(l.Events) == 0
}

// Recorder captures tap events into a loop. State machine:
// Idle -> Recording -> Idle. Appends are in-memory only, so RecordEvent
// is safe to call from the input thread.
type Recorder struct {
	mu        sync.Mutex
	clock     Clock
	recording bool
	start     time.Time
	loop      *Loop
}

// NewRecorder creates an idle recorder. A nil clock means SystemClock.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock
	}
	return &Recorder{clock: clock}
}

// Start opens a new empty loop and begins capturing. Starting while
// already recording discards the in-progress loop and restarts.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	r.loop = &Loop{
		ID:        fmt.Sprintf("loop-%d", now.UnixNano()),
		CreatedAt: now,
	}
	r.start = now
	r.recording = true
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// RecordEvent appends a pad trigger at the current elapsed time.
// A no-op (not an error) while idle or for ids outside the catalogue.
func (r *Recorder) RecordEvent(pad int) {
	if !ValidPad(pad) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	elapsed := r.clock.Now().Sub(r.start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	r.loop.Events = append(r.loop.Events, LoopEvent{Pad: pad, At: elapsed})
}

// Stop finalizes and returns the loop, which is immutable from here on.
// A loop with zero events is a valid result; callers decide whether to
// keep it. Returns nil if no session was active.
func (r *Recorder) Stop() *Loop {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	r.recording = false
	loop := r.loop
	r.loop = nil
	return loop
}
