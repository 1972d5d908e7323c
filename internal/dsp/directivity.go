package dsp

import "github.com/planeverb/planeverb-go/internal/pvmath"

// DirectivityPattern selects how an emitter's dry gain depends on its
// orientation relative to the listener.
type DirectivityPattern int

const (
	Omni DirectivityPattern = iota
	Cardioid
)

// minDryGain floors directivity and obstruction gains so a source never
// goes fully silent from orientation or occlusion alone.
const minDryGain = 0.01

// directivityGain dispatches on pattern rather than a function-pointer
// table: there are only two shapes and neither is likely to grow a third
// without also changing the field this reads from.
func directivityGain(pattern DirectivityPattern, toListener, forward pvmath.Vec2) float64 {
	switch pattern {
	case Cardioid:
		if forward.IsZero() || toListener.IsZero() {
			return minDryGain
		}
		g := (1 + forward.Normalized().Dot(toListener.Normalized())) / 2
		if g < minDryGain {
			return minDryGain
		}
		return g
	default:
		return 1
	}
}
