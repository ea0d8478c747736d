package drum

import (
	"sync"
	"time"
)

// cycleGap is the fixed silent gap appended after the last event in
// cyclic playback before the sequence repeats.
const cycleGap = 0.5

const defaultPollInterval = 10 * time.Millisecond

// Player replays a recorded loop against a captured start instant,
// dispatching each event in stored order exactly once per pass. The
// drain step pulls every event whose time has come, so late ticks
// never skip events; several close-together events may fire in one
// tick (burst dispatch).
type Player struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration

	loop    *Loop
	onEvent func(pad int)
	cyclic  bool

	playing bool
	start   time.Time
	cursor  int
	cycle   int
	quit    chan struct{}
}

// NewPlayer creates an idle player. A nil clock means SystemClock.
func NewPlayer(clock Clock) *Player {
	if clock == nil {
		clock = SystemClock
	}
	return &Player{
		clock:    clock,
		interval: defaultPollInterval,
	}
}

// Play starts replaying loop, invoking onEvent(pad) per dispatched
// event. In cyclic mode the sequence repeats after the loop duration
// plus a fixed gap. Returns ErrEmptyLoop for a loop with no events.
// Calling Play while playing restarts with the new loop.
func (p *Player) Play(loop *Loop, onEvent func(pad int), cyclic bool) error {
	if loop.Empty() {
		return ErrEmptyLoop
	}
	p.Stop()

	p.mu.Lock()
	p.loop = loop
	p.onEvent = onEvent
	p.cyclic = cyclic
	p.playing = true
	p.start = p.clock.Now()
	p.cursor = 0
	p.cycle = 0
	var quit chan struct{}
	if p.interval > 0 {
		quit = make(chan struct{})
		p.quit = quit
	}
	p.mu.Unlock()

	if quit != nil {
		go p.run(quit)
	}
	return nil
}

// Playing reports whether playback is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Stop cancels playback and resets the cursor. Safe to call when idle.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

func (p *Player) stopLocked() {
	if p.quit != nil {
		close(p.quit)
		p.quit = nil
	}
	p.playing = false
	p.cursor = 0
	p.cycle = 0
}

func (p *Player) run(quit chan struct{}) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.step()
		case <-quit:
			return
		}
	}
}

// step drains every due event. It is the unit the poll ticker drives
// and what tests call directly with a manual clock.
func (p *Player) step() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	elapsed := p.clock.Now().Sub(p.start).Seconds()

	var due []int
	if p.cyclic {
		period := p.loop.Duration() + cycleGap
		n := int(elapsed / period)
		if n > p.cycle {
			// Wrapped into a new pass: drain the remainder of the old
			// pass first, then restart the cursor.
			for p.cursor < len(p.loop.Events) {
				due = append(due, p.loop.Events[p.cursor].Pad)
				p.cursor++
			}
			p.cycle = n
			p.cursor = 0
		}
		local := elapsed - float64(n)*period
		for p.cursor < len(p.loop.Events) && p.loop.Events[p.cursor].At <= local {
			due = append(due, p.loop.Events[p.cursor].Pad)
			p.cursor++
		}
	} else {
		for p.cursor < len(p.loop.Events) && p.loop.Events[p.cursor].At <= elapsed {
			due = append(due, p.loop.Events[p.cursor].Pad)
			p.cursor++
		}
		if p.cursor >= len(p.loop.Events) {
			p.stopLocked()
		}
	}
	onEvent := p.onEvent
	p.mu.Unlock()

	if onEvent != nil {
		for _, pad := range due {
			onEvent(pad)
		}
	}
}
