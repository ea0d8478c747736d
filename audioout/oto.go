// Package audioout puts engine output on the speaker through oto v3.
package audioout

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Source is anything that renders interleaved stereo float32 blocks.
// drum.Engine satisfies it.
type Source interface {
	Process(numFrames int) []float32
}

// Output owns the oto context and a player that pulls samples from a
// Source on the audio callback goroutine.
type Output struct {
	ctx     *oto.Context
	player  *oto.Player
	source  Source
	started bool
	mu      sync.Mutex
}

// New opens the audio device at the given rate. Blocks until the
// context is ready.
func New(sampleRate int, source Source) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	o := &Output{ctx: ctx, source: source}
	o.player = ctx.NewPlayer(o)
	return o, nil
}

// Read renders the next block from the source as float32 LE bytes.
// Called by oto on its own goroutine.
func (o *Output) Read(p []byte) (int, error) {
	const bytesPerFrame = 8 // 2 channels * 4 bytes
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	samples := o.source.Process(frames)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return len(samples) * 4, nil
}

// Start begins playback. Idempotent.
func (o *Output) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started && o.player != nil {
		o.player.Play()
		o.started = true
	}
}

// Close stops and releases the player. Idempotent.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	o.started = false
}
