package freegrid

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func TestNewProducesPositiveReferenceEnergy(t *testing.T) {
	fg, err := New(fdtd.Config{
		SizeInMeters: pvmath.Vec2{X: 10, Y: 10},
		Resolution:   fdtd.LowResolution,
		BoundaryType: fdtd.AbsorbingBoundary,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if fg.EAtOneMeter() <= 0 {
		t.Fatalf("expected positive reference energy, got %v", fg.EAtOneMeter())
	}
	perR := fg.EFreePerR(pvmath.Vec2{X: 0, Y: 0}, pvmath.Vec2{X: 2, Y: 0})
	if perR <= 0 || perR >= fg.EAtOneMeter() {
		t.Fatalf("expected energy at 2m to be positive and less than at 1m, got %v vs %v", perR, fg.EAtOneMeter())
	}
}

func TestEFreePerRFloorsAtOneMeter(t *testing.T) {
	fg, err := New(fdtd.Config{
		SizeInMeters: pvmath.Vec2{X: 10, Y: 10},
		Resolution:   fdtd.LowResolution,
		BoundaryType: fdtd.AbsorbingBoundary,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	close := fg.EFreePerR(pvmath.Vec2{X: 0, Y: 0}, pvmath.Vec2{X: 0.1, Y: 0})
	if close != fg.EAtOneMeter() {
		t.Fatalf("expected sub-1m distance to floor to EAtOneMeter, got %v vs %v", close, fg.EAtOneMeter())
	}
}
