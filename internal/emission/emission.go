// Package emission is the engine-side emitter table: stable ids mapped to
// world positions, with slot reuse on removal. It is single-threaded from
// the host's perspective — the background worker only ever reads it.
package emission

import "github.com/planeverb/planeverb-go/internal/pvmath"

// ID identifies a live emitter. The zero value is never issued.
type ID uint64

// Manager is a dense position table with a free-list for recycled ids.
type Manager struct {
	positions []pvmath.Vec3
	occupied  []bool
	freeList  []ID
	nextID    ID
}

func NewManager() *Manager { return &Manager{} }

// Add registers pos under a fresh or recycled id.
func (m *Manager) Add(pos pvmath.Vec3) ID {
	if n := len(m.freeList); n > 0 {
		id := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.positions[id-1] = pos
		m.occupied[id-1] = true
		return id
	}
	m.nextID++
	id := m.nextID
	m.positions = append(m.positions, pos)
	m.occupied = append(m.occupied, true)
	return id
}

// Update moves an existing emitter. A reference to an unknown id is a no-op.
func (m *Manager) Update(id ID, pos pvmath.Vec3) {
	if !m.valid(id) {
		return
	}
	m.positions[id-1] = pos
}

// Remove marks id's slot reusable. Unlike the geometry table, the position
// is left in place (it is never read again until the slot is reused), only
// the occupied flag changes — mirroring the source's engine-side emission
// table, which does not bother clearing on removal the way the geometry
// table does.
func (m *Manager) Remove(id ID) {
	if !m.valid(id) {
		return
	}
	m.occupied[id-1] = false
	m.freeList = append(m.freeList, id)
}

// Get returns id's world position, or false if id is unknown or removed.
func (m *Manager) Get(id ID) (pvmath.Vec3, bool) {
	if !m.valid(id) {
		return pvmath.Vec3{}, false
	}
	return m.positions[id-1], true
}

func (m *Manager) valid(id ID) bool {
	return id != 0 && int(id) <= len(m.positions) && m.occupied[id-1]
}
