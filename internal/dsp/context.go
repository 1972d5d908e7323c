package dsp

import (
	"sync"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

const (
	minAudibleFreq = 20
	maxAudibleFreq = 20000
)

// EmitterID names a slot in a Context's dense emitter table. It is the
// context's own allocation, independent of any id the acoustic engine
// handed out for the same logical source.
type EmitterID uint64

// Context is the opaque per-stream DSP handle: a dense table of emitter
// states plus the double-buffered dry/A/B/C output banks a callback reads
// from after calling ProcessOutput.
type Context struct {
	cfg Config

	mu       sync.Mutex
	slots    []emissionState
	occupied []bool
	freeList []EmitterID

	listenerPos     pvmath.Vec2
	listenerForward pvmath.Vec2

	scratch []float32

	filling    int
	freshBank  bool
	haveOutput bool
	readyBank  int
	submitted  bool

	dryBanks  [2][]float32
	busABanks [2][]float32
	busBBanks [2][]float32
	busCBanks [2][]float32
}

func NewContext(cfg Config) (*Context, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Context{cfg: cfg, freshBank: true}, nil
}

// AddEmitter allocates a slot in the dense table, reusing a removed one
// where possible, and fails once MaxEmitters slots are live.
func (c *Context) AddEmitter() (EmitterID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.freeList); n > 0 {
		id := c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		c.slots[id-1] = newEmissionState(c.cfg.SamplingRate)
		c.occupied[id-1] = true
		return id, true
	}
	if len(c.slots) >= c.cfg.MaxEmitters {
		return 0, false
	}
	c.slots = append(c.slots, newEmissionState(c.cfg.SamplingRate))
	c.occupied = append(c.occupied, true)
	return EmitterID(len(c.slots)), true
}

func (c *Context) RemoveEmitter(id EmitterID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid(id) {
		return
	}
	c.occupied[id-1] = false
	c.slots[id-1] = newEmissionState(c.cfg.SamplingRate)
	c.freeList = append(c.freeList, id)
}

func (c *Context) valid(id EmitterID) bool {
	return id >= 1 && int(id) <= len(c.slots) && c.occupied[id-1]
}

func (c *Context) SetListenerTransform(pos, forward pvmath.Vec3) {
	c.listenerPos = pos.Plane()
	c.listenerForward = forward.Plane()
}

func (c *Context) UpdateEmitterTransform(id EmitterID, pos, forward pvmath.Vec3) {
	if !c.valid(id) {
		return
	}
	c.slots[id-1].target.Position = pos.Plane()
	c.slots[id-1].target.Forward = forward.Plane()
}

func (c *Context) SetEmitterDirectivityPattern(id EmitterID, pattern DirectivityPattern) {
	if !c.valid(id) {
		return
	}
	c.slots[id-1].target.Pattern = pattern
}

// SendSource renders one emitter's mono-summed stereo input into the
// context's write-side dry/A/B/C banks for this callback, interpolating
// every parameter from the slot's current value toward params across
// numFrames samples. It reports false (and renders nothing) for an
// unknown id or params outside the audible range.
func (c *Context) SendSource(id EmitterID, params SourceParams, stereo []float32, numFrames int) bool {
	if !c.valid(id) {
		return false
	}
	if params.Lowpass < minAudibleFreq || params.Lowpass > maxAudibleFreq {
		return false
	}
	if params.ObstructionGain <= 0 {
		return false
	}
	if params.Direction.IsZero() {
		return false
	}
	if numFrames <= 0 || len(stereo) < numFrames*2 {
		return false
	}

	c.ensureCapacity(numFrames)
	fill := c.filling
	if c.freshBank {
		zero(c.dryBanks[fill])
		zero(c.busABanks[fill])
		zero(c.busBBanks[fill])
		zero(c.busCBanks[fill])
		c.freshBank = false
	}

	slot := &c.slots[id-1]
	alpha := 1 / (float64(numFrames) * c.cfg.Smoothing)

	slot.target.Occlusion = params.ObstructionGain
	slot.target.WetGain = params.WetGain
	slot.target.RT60 = params.RT60
	slot.target.ListenerDirection = params.Direction
	slot.target.SourceDirectivity = params.SourceDirectivity

	targetGainA := FindGainA(params.RT60, params.WetGain)
	targetGainB := FindGainB(params.RT60, params.WetGain)
	targetGainC := FindGainC(params.RT60, params.WetGain)
	curGainA := FindGainA(slot.current.RT60, slot.current.WetGain)
	curGainB := FindGainB(slot.current.RT60, slot.current.WetGain)
	curGainC := FindGainC(slot.current.RT60, slot.current.WetGain)

	targetL, targetR := equalPowerPan(c.listenerForward, params.Direction)
	curL, curR := equalPowerPan(c.listenerForward, slot.current.ListenerDirection)

	curDirGain := directivityGain(slot.current.Pattern, slot.current.SourceDirectivity, slot.current.Forward)
	targetDirGain := directivityGain(slot.target.Pattern, slot.target.SourceDirectivity, slot.target.Forward)

	curDist := max(c.listenerPos.Sub(slot.current.Position).Length(), 1)
	targetDist := max(c.listenerPos.Sub(slot.target.Position).Length(), 1)
	curDryGain := max(slot.current.Occlusion, minDryGain) * curDirGain / curDist
	targetDryGain := max(slot.target.Occlusion, minDryGain) * targetDirGain / targetDist

	mono := c.scratch[:numFrames]
	for i := 0; i < numFrames; i++ {
		mono[i] = (stereo[2*i] + stereo[2*i+1]) / 2
	}

	slot.lpf.Process(mono, 0, 1, numFrames, params.Lowpass, alpha)

	writeBus(c.busABanks[fill], mono, curGainA, targetGainA, alpha, numFrames)
	writeBus(c.busBBanks[fill], mono, curGainB, targetGainB, alpha, numFrames)
	writeBus(c.busCBanks[fill], mono, curGainC, targetGainC, alpha, numFrames)

	dry := c.dryBanks[fill]
	g, l, r := curDryGain, curL, curR
	for i := 0; i < numFrames; i++ {
		sample := mono[i] * float32(g)
		dry[2*i] += sample * float32(l)
		dry[2*i+1] += sample * float32(r)
		g = lerp(g, targetDryGain, alpha)
		l = lerp(l, targetL, alpha)
		r = lerp(r, targetR, alpha)
	}

	slot.current.Occlusion = lerpN(slot.current.Occlusion, slot.target.Occlusion, alpha, numFrames)
	slot.current.WetGain = lerpN(slot.current.WetGain, slot.target.WetGain, alpha, numFrames)
	slot.current.RT60 = lerpN(slot.current.RT60, slot.target.RT60, alpha, numFrames)
	slot.current.ListenerDirection.X = lerpN(slot.current.ListenerDirection.X, slot.target.ListenerDirection.X, alpha, numFrames)
	slot.current.ListenerDirection.Y = lerpN(slot.current.ListenerDirection.Y, slot.target.ListenerDirection.Y, alpha, numFrames)
	slot.current.SourceDirectivity.X = lerpN(slot.current.SourceDirectivity.X, slot.target.SourceDirectivity.X, alpha, numFrames)
	slot.current.SourceDirectivity.Y = lerpN(slot.current.SourceDirectivity.Y, slot.target.SourceDirectivity.Y, alpha, numFrames)
	slot.current.Position.X = lerpN(slot.current.Position.X, slot.target.Position.X, alpha, numFrames)
	slot.current.Position.Y = lerpN(slot.current.Position.Y, slot.target.Position.Y, alpha, numFrames)
	slot.current.Forward.X = lerpN(slot.current.Forward.X, slot.target.Forward.X, alpha, numFrames)
	slot.current.Forward.Y = lerpN(slot.current.Forward.Y, slot.target.Forward.Y, alpha, numFrames)
	slot.current.Pattern = slot.target.Pattern

	c.submitted = true
	return true
}

func writeBus(bank []float32, mono []float32, cur, target, alpha float64, numFrames int) {
	g := cur
	for i := 0; i < numFrames; i++ {
		bank[2*i] += mono[i] * float32(g)
		bank[2*i+1] += mono[i] * float32(g)
		g = lerp(g, target, alpha)
	}
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

func growZero(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func (c *Context) ensureCapacity(numFrames int) {
	n := numFrames * 2
	if cap(c.scratch) < numFrames {
		c.scratch = make([]float32, numFrames)
	} else {
		c.scratch = c.scratch[:numFrames]
	}
	for i := 0; i < 2; i++ {
		c.dryBanks[i] = growZero(c.dryBanks[i], n)
		c.busABanks[i] = growZero(c.busABanks[i], n)
		c.busBBanks[i] = growZero(c.busBBanks[i], n)
		c.busCBanks[i] = growZero(c.busCBanks[i], n)
	}
}

// ProcessOutput exposes the callback's accumulated output on the Buffer*
// getters and flips the write side, returning false if no source was
// submitted since the previous call.
func (c *Context) ProcessOutput() bool {
	if !c.submitted {
		return false
	}
	c.readyBank = c.filling
	c.filling = 1 - c.filling
	c.freshBank = true
	c.submitted = false
	c.haveOutput = true
	return true
}

func (c *Context) DryBuffer() []float32 {
	if !c.haveOutput {
		return nil
	}
	return c.dryBanks[c.readyBank]
}

func (c *Context) BufferA() []float32 {
	if !c.haveOutput {
		return nil
	}
	return c.busABanks[c.readyBank]
}

func (c *Context) BufferB() []float32 {
	if !c.haveOutput {
		return nil
	}
	return c.busBBanks[c.readyBank]
}

func (c *Context) BufferC() []float32 {
	if !c.haveOutput {
		return nil
	}
	return c.busCBanks[c.readyBank]
}
