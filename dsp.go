package planeverb

import (
	intdsp "github.com/planeverb/planeverb-go/internal/dsp"
)

// Re-exported DSP types.
type (
	DSPConfig         = intdsp.Config
	SourceParams      = intdsp.SourceParams
	DirectivityPattern = intdsp.DirectivityPattern
	DSPEmitterID      = intdsp.EmitterID
)

const (
	Omni     = intdsp.Omni
	Cardioid = intdsp.Cardioid
)

// DefaultDSPConfig returns the DSP context's default configuration.
func DefaultDSPConfig() DSPConfig { return intdsp.DefaultConfig() }

// DSPContext renders emitter audio into dry and three reverb-bus output
// streams each callback, given per-emitter acoustic analysis from an
// Engine.
type DSPContext struct {
	c *intdsp.Context
}

// NewDSPContext builds a DSP context with its own dense emitter table.
func NewDSPContext(cfg DSPConfig) (*DSPContext, error) {
	c, err := intdsp.NewContext(cfg)
	if err != nil {
		return nil, err
	}
	return &DSPContext{c: c}, nil
}

// AddEmitter allocates a DSP-side slot for a new source.
func (d *DSPContext) AddEmitter() (DSPEmitterID, bool) { return d.c.AddEmitter() }

// RemoveEmitter releases a DSP-side slot for reuse.
func (d *DSPContext) RemoveEmitter(id DSPEmitterID) { d.c.RemoveEmitter(id) }

// SetListenerTransform sets the listener position and facing used by
// every subsequent SendSource call until it's set again.
func (d *DSPContext) SetListenerTransform(pos, forward Vec3) {
	d.c.SetListenerTransform(pos, forward)
}

// UpdateEmitterTransform sets an emitter's world position and facing.
func (d *DSPContext) UpdateEmitterTransform(id DSPEmitterID, pos, forward Vec3) {
	d.c.UpdateEmitterTransform(id, pos, forward)
}

// SetEmitterDirectivityPattern selects how an emitter's dry gain depends
// on its orientation relative to the listener.
func (d *DSPContext) SetEmitterDirectivityPattern(id DSPEmitterID, pattern DirectivityPattern) {
	d.c.SetEmitterDirectivityPattern(id, pattern)
}

// SendSource renders one emitter's mono-summed stereo input into this
// callback's accumulating dry/A/B/C banks, given its latest acoustic
// analysis. Call once per live emitter per callback, then ProcessOutput.
func (d *DSPContext) SendSource(id DSPEmitterID, params SourceParams, stereo []float32, numFrames int) bool {
	return d.c.SendSource(id, params, stereo, numFrames)
}

// ProcessOutput exposes the callback's accumulated output on the Buffer*
// getters and resets the accumulators for the next callback. It returns
// false if no source was submitted since the previous call.
func (d *DSPContext) ProcessOutput() bool { return d.c.ProcessOutput() }

// DryBuffer returns the most recently processed callback's direct-path
// stereo output.
func (d *DSPContext) DryBuffer() []float32 { return d.c.DryBuffer() }

// BufferA returns the early-reflection reverb bus.
func (d *DSPContext) BufferA() []float32 { return d.c.BufferA() }

// BufferB returns the mid reverb bus.
func (d *DSPContext) BufferB() []float32 { return d.c.BufferB() }

// BufferC returns the long-decay reverb bus.
func (d *DSPContext) BufferC() []float32 { return d.c.BufferC() }
