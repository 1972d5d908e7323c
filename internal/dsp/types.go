// Package dsp renders the per-emitter audio callback pipeline described by
// the acoustic engine's analysis: lowpass filtering, directivity and
// distance attenuation, equal-power panning, and a three-bus reverb send,
// all interpolated smoothly across a callback rather than stepped.
package dsp

import (
	"github.com/planeverb/planeverb-go/internal/pverr"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// Config is the client-facing DSP context configuration.
type Config struct {
	SamplingRate float64
	MaxEmitters  int
	// Smoothing scales the per-callback interpolation rate: each sample
	// moves a parameter 1/(numFrames*Smoothing) of its remaining distance
	// to the target, so with 1 a callback covers about 63% of a change and
	// does not reach the target; larger values spread the change across
	// more callbacks.
	Smoothing float64
}

func DefaultConfig() Config {
	return Config{
		SamplingRate: 44100,
		MaxEmitters:  64,
		Smoothing:    1,
	}
}

func (c Config) validate() error {
	if c.SamplingRate <= 0 {
		return pverr.InvalidConfigf("sampling rate must be positive, got %v", c.SamplingRate)
	}
	if c.MaxEmitters <= 0 {
		return pverr.InvalidConfigf("max emitters must be positive, got %v", c.MaxEmitters)
	}
	if c.Smoothing < 1 {
		return pverr.InvalidConfigf("smoothing must be at least 1, got %v", c.Smoothing)
	}
	return nil
}

// SourceParams is one emitter's acoustic analysis for a single callback,
// matching the engine's AcousticResult fields the host forwards in.
type SourceParams struct {
	ObstructionGain   float64
	WetGain           float64
	RT60              float64
	Lowpass           float64
	Direction         pvmath.Vec2
	SourceDirectivity pvmath.Vec2
}
