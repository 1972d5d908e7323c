// Package audiosink streams a DSP context's rendered dry/A/B/C buses to
// the system audio device via ebiten's audio context, the same way the
// teacher streams its synthesized channels to output.
package audiosink

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource renders into an interleaved stereo float32 buffer.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource additionally reports when it has no more audio to give;
// the Read that first observes this returns its samples together with
// io.EOF.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// StreamReader adapts a SampleSource to io.Reader so it can feed an ebiten
// audio player, encoding each float32 sample as little-endian bytes.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		u := math.Float32bits(r.buf[i])
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error { return nil }

// Player wraps an ebiten audio player bound to a SampleSource stream.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioContextErr  error
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioContextErr != nil {
		return nil, audioContextErr
	}
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

// NewMixerPlayer binds a BusMixer's dry/A/B/C render pass directly to a
// Player, capping it at numFrames so a fixed-length scene render stops on
// its own rather than the caller guessing a wall-clock sleep.
func NewMixerPlayer(sampleRate int, mixer *BusMixer, numFrames int) (*Player, error) {
	return NewPlayer(sampleRate, NewDurationSource(mixer, numFrames))
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) Position() time.Duration { return p.player.Position() }

// Wait blocks, polling at pollInterval, until the underlying stream has
// stopped playing - either because Stop was called or, for a player built
// with NewMixerPlayer, because its DurationSource reported Finished and
// the stream surfaced io.EOF.
func (p *Player) Wait(pollInterval time.Duration) {
	for p.player.IsPlaying() {
		time.Sleep(pollInterval)
	}
}

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
