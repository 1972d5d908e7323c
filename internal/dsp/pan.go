package dsp

import (
	"math"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

const invSqrt2 = 1 / math.Sqrt2

// equalPowerPan splits a mono source into left/right gains using the
// angle between the listener's forward axis and the source's direction,
// so a centred source plays at -3dB on both channels rather than 0dB.
func equalPowerPan(listenerForward, direction pvmath.Vec2) (left, right float64) {
	if listenerForward.IsZero() {
		listenerForward = pvmath.Vec2{X: 0, Y: 1}
	}
	if direction.IsZero() {
		return invSqrt2, invSqrt2
	}
	phiListener := math.Atan2(listenerForward.Y, listenerForward.X)
	phiSource := math.Atan2(direction.Y, direction.X)
	theta := (phiListener - phiSource) / 2

	left = (math.Cos(theta) - math.Sin(theta)) * invSqrt2
	right = (math.Cos(theta) + math.Sin(theta)) * invSqrt2
	return left, right
}
