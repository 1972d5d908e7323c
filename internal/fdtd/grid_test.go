package fdtd

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(Config{
		SizeInMeters: pvmath.Vec2{X: 10, Y: 10},
		Resolution:   LowResolution,
		BoundaryType: AbsorbingBoundary,
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestBorderMask(t *testing.T) {
	g := newTestGrid(t)
	dimX, dimY := g.Dimensions()
	for row := 0; row < dimY; row++ {
		for col := 0; col < dimX; col++ {
			c := g.CellAt(col, row)
			switch {
			case row == dimY-1 || col == dimX-1:
				if c.B || c.Bx {
					t.Fatalf("border cell (%d,%d) should have b=bx=false, got %+v", col, row, c)
				}
			case col == 0:
				if !c.B || c.Bx {
					t.Fatalf("first-column cell (%d,%d) should have b=true,bx=false, got %+v", col, row, c)
				}
			default:
				if !c.B || !c.Bx {
					t.Fatalf("interior cell (%d,%d) should have b=bx=true, got %+v", col, row, c)
				}
			}
			if c.R != 0 {
				t.Fatalf("cell (%d,%d) should have R=0, got %v", col, row, c.R)
			}
		}
	}
}

func TestAABBRoundTrip(t *testing.T) {
	g := newTestGrid(t)
	listener := pvmath.Vec2{X: 5, Y: 5}
	box := pvmath.AABB{Center: pvmath.Vec2{X: 5, Y: 5}, Width: 1, Height: 1, Absorption: 0.9}

	g.AddAABB(box, listener)
	startCol, startRow, endCol, endRow := g.rect(box, listener)
	insideObstacle := false
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if !g.inBounds(col, row) {
				continue
			}
			c := g.CellAt(col, row)
			if c.B || c.Bx {
				t.Fatalf("expected obstacle cell (%d,%d) to have b=bx=false, got %+v", col, row, c)
			}
			insideObstacle = true
		}
	}
	if !insideObstacle {
		t.Fatal("expected AddAABB to cover at least one cell")
	}

	g.RemoveAABB(box, listener)
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if !g.inBounds(col, row) {
				continue
			}
			c := g.CellAt(col, row)
			if c.R != 0 {
				t.Fatalf("expected R=0 after remove at (%d,%d), got %v", col, row, c.R)
			}
		}
	}
}

func TestStepImpulseEnergyNonIncreasing(t *testing.T) {
	g := newTestGrid(t)
	listener := pvmath.Vec2{X: 5, Y: 5}
	g.StepImpulse(listener)

	pulseSupportEnd := len(g.pulse) / 4 // pulse peaks at 2*sigma, safely decayed well before 1/4 of the window
	var prevEnergy float64 = -1
	for s := pulseSupportEnd; s < g.respLen; s += g.respLen / 20 {
		var energy float64
		for i := range g.cells {
			resp := g.ir[i][s]
			energy += resp.P * resp.P
		}
		if prevEnergy >= 0 && energy > prevEnergy*1.05 {
			t.Fatalf("energy increased from %v to %v at sample %d", prevEnergy, energy, s)
		}
		prevEnergy = energy
	}
}

func TestWorldToGridRoundTrip(t *testing.T) {
	g := newTestGrid(t)
	listener := pvmath.Vec2{X: 5, Y: 5}
	world := pvmath.Vec2{X: 6, Y: 5}
	col, row := g.WorldToGrid(world, listener)
	back := g.GridToWorld(col, row, listener)
	if dx := back.Sub(world); dx.Length() > g.dx {
		t.Fatalf("round trip drifted by more than one cell: %+v vs %+v", back, world)
	}
}
