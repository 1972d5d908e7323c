package geometry

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func newTestManager(t *testing.T) (*Manager, *fdtd.Grid) {
	t.Helper()
	g, err := fdtd.NewGrid(fdtd.Config{
		SizeInMeters: pvmath.Vec2{X: 10, Y: 10},
		Resolution:   fdtd.LowResolution,
		BoundaryType: fdtd.AbsorbingBoundary,
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return NewManager(g, fdtd.StaticCentering), g
}

func TestAddThenPushRasterizes(t *testing.T) {
	m, g := newTestManager(t)
	box := pvmath.AABB{Center: pvmath.Vec2{X: 0, Y: 0}, Width: 1, Height: 1, Absorption: 0.5}
	id := m.Add(box)
	if id == 0 {
		t.Fatal("expected nonzero id")
	}
	listener := pvmath.Vec2{X: 0, Y: 0}
	m.PushChanges(listener)

	col, row := g.WorldToGrid(box.Center, listener)
	c := g.CellAt(col, row)
	if c.B {
		t.Fatalf("expected obstacle cell to be rasterized (b=false), got %+v", c)
	}
}

func TestRemoveRestoresMaskAfterPush(t *testing.T) {
	m, g := newTestManager(t)
	box := pvmath.AABB{Center: pvmath.Vec2{X: 0, Y: 0}, Width: 1, Height: 1, Absorption: 0.5}
	id := m.Add(box)
	listener := pvmath.Vec2{X: 0, Y: 0}
	m.PushChanges(listener)

	m.Remove(id)
	m.PushChanges(listener)

	col, row := g.WorldToGrid(box.Center, listener)
	c := g.CellAt(col, row)
	if !c.B || c.R != 0 {
		t.Fatalf("expected free-space cell after remove, got %+v", c)
	}
}

func TestIDRecycledAfterRemove(t *testing.T) {
	m, _ := newTestManager(t)
	box := pvmath.AABB{Center: pvmath.Vec2{X: 1, Y: 1}, Width: 1, Height: 1}
	id1 := m.Add(box)
	m.Remove(id1)
	id2 := m.Add(box)
	if id2 != id1 {
		t.Fatalf("expected recycled id %d, got %d", id1, id2)
	}
}
