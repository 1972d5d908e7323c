package audiosink

import (
	"math"
	"sync/atomic"
)

// RenderFunc produces numFrames worth of interleaved stereo samples for
// each of the dry signal and the three reverb buses, typically backed by
// an engine query plus a dsp.Context.SendSource/ProcessOutput pass. Any
// of the four may be nil or shorter than needed, in which case the
// missing samples are treated as silence.
type RenderFunc func(numFrames int) (dry, busA, busB, busC []float32)

// BusSendGains holds the three reverb-bus send levels as bit-cast
// float32s behind atomics, so a control surface on another goroutine can
// adjust them without taking a lock the audio callback would have to wait
// on. 1.0 is unity.
type BusSendGains struct {
	a, b, c atomic.Uint32
}

func NewBusSendGains(a, b, c float32) *BusSendGains {
	g := &BusSendGains{}
	g.a.Store(math.Float32bits(a))
	g.b.Store(math.Float32bits(b))
	g.c.Store(math.Float32bits(c))
	return g
}

func (g *BusSendGains) A() float32 { return math.Float32frombits(g.a.Load()) }
func (g *BusSendGains) B() float32 { return math.Float32frombits(g.b.Load()) }
func (g *BusSendGains) C() float32 { return math.Float32frombits(g.c.Load()) }

func (g *BusSendGains) SetA(v float32) { g.a.Store(math.Float32bits(v)) }
func (g *BusSendGains) SetB(v float32) { g.b.Store(math.Float32bits(v)) }
func (g *BusSendGains) SetC(v float32) { g.c.Store(math.Float32bits(v)) }

// BusMixer implements SampleSource by summing a render pass's dry signal
// with its three reverb buses under live-adjustable per-bus send gains.
type BusMixer struct {
	render RenderFunc
	gains  *BusSendGains
}

func NewBusMixer(render RenderFunc, gains *BusSendGains) *BusMixer {
	return &BusMixer{render: render, gains: gains}
}

func (m *BusMixer) Process(dst []float32) {
	numFrames := len(dst) / 2
	dry, busA, busB, busC := m.render(numFrames)
	gainA, gainB, gainC := m.gains.A(), m.gains.B(), m.gains.C()

	for i := range dst {
		var s float32
		if i < len(dry) {
			s += dry[i]
		}
		if i < len(busA) {
			s += busA[i] * gainA
		}
		if i < len(busB) {
			s += busB[i] * gainB
		}
		if i < len(busC) {
			s += busC[i] * gainC
		}
		dst[i] = s
	}
}
