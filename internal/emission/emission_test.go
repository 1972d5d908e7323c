package emission

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func TestAddGetUpdateRemove(t *testing.T) {
	m := NewManager()
	id := m.Add(pvmath.Vec3{X: 1})
	pos, ok := m.Get(id)
	if !ok || pos.X != 1 {
		t.Fatalf("Get after Add = %+v, %v", pos, ok)
	}

	m.Update(id, pvmath.Vec3{X: 2})
	pos, ok = m.Get(id)
	if !ok || pos.X != 2 {
		t.Fatalf("Get after Update = %+v, %v", pos, ok)
	}

	m.Remove(id)
	if _, ok := m.Get(id); ok {
		t.Fatal("expected Get to fail after Remove")
	}
}

func TestIDRecycled(t *testing.T) {
	m := NewManager()
	id1 := m.Add(pvmath.Vec3{})
	m.Remove(id1)
	id2 := m.Add(pvmath.Vec3{X: 5})
	if id2 != id1 {
		t.Fatalf("expected recycled id %d, got %d", id1, id2)
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	m := NewManager()
	m.Update(ID(42), pvmath.Vec3{X: 1})
	if _, ok := m.Get(ID(42)); ok {
		t.Fatal("expected unknown id to remain absent")
	}
}
