package dsp

import "github.com/planeverb/planeverb-go/internal/pvmath"

// emissionParams is the subset of an emitter's state that gets lerped
// smoothly from current toward target across a callback.
type emissionParams struct {
	Occlusion         float64
	WetGain           float64
	RT60              float64
	ListenerDirection pvmath.Vec2
	SourceDirectivity pvmath.Vec2
	Position          pvmath.Vec2
	Forward           pvmath.Vec2
	Pattern           DirectivityPattern
}

// emissionState is one slot in the DSP context's dense emitter table: a
// current/target pair plus the per-emitter lowpass filter, whose own
// internal coefficients interpolate on their own schedule inside Process.
type emissionState struct {
	current, target emissionParams
	lpf             *LowpassFilter
}

func newEmissionState(sampleRate float64) emissionState {
	return emissionState{
		lpf: NewLowpassFilter(sampleRate, fdtdMaxAudibleFreq),
	}
}

// fdtdMaxAudibleFreq mirrors the grid's default cutoff ceiling so a freshly
// allocated slot starts fully open rather than silent.
const fdtdMaxAudibleFreq = 20000
