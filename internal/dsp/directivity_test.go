package dsp

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func TestOmniDirectivityIsConstant(t *testing.T) {
	g := directivityGain(Omni, pvmath.Vec2{X: 1}, pvmath.Vec2{X: -1})
	if g != 1 {
		t.Fatalf("omni gain = %v, want 1", g)
	}
}

func TestCardioidDirectivityFacingListenerIsLoudest(t *testing.T) {
	toListener := pvmath.Vec2{X: 1, Y: 0}
	facing := directivityGain(Cardioid, toListener, pvmath.Vec2{X: 1, Y: 0})
	away := directivityGain(Cardioid, toListener, pvmath.Vec2{X: -1, Y: 0})
	if facing <= away {
		t.Fatalf("expected facing gain %v > away gain %v", facing, away)
	}
	if away != minDryGain {
		t.Fatalf("expected directly-away cardioid gain to floor at %v, got %v", minDryGain, away)
	}
}
