// Package geometry is the authoritative scene AABB table: it assigns
// stable ids to obstacles, tracks which rectangles are currently live, and
// queues the Add/Remove changes the engine worker applies to the FDTD grid
// between impulse responses.
package geometry

import (
	"sync"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// ID identifies a live geometry entry. The zero value is never issued.
type ID uint64

// changeKind tags a queued grid mutation.
type changeKind int

const (
	changeAdd changeKind = iota
	changeRemove
)

type change struct {
	kind changeKind
	aabb pvmath.AABB
}

// listenerDeltaThreshold is the minimum per-axis listener displacement, in
// metres, that triggers a full re-rasterization in dynamic centering mode.
const listenerDeltaThreshold = 0.1

// Manager holds the live AABB table, a free-list of reusable ids, and the
// pending change queue drained by the engine worker each iteration.
type Manager struct {
	grid      *fdtd.Grid
	centering fdtd.CenteringType

	table    []pvmath.AABB
	occupied []bool
	freeList []ID
	nextID   ID

	mu              sync.Mutex
	pending         []change
	lastListener    pvmath.Vec2
	haveLastListener bool
}

// NewManager binds a Manager to the Grid it will rasterize changes into.
func NewManager(grid *fdtd.Grid, centering fdtd.CenteringType) *Manager {
	return &Manager{grid: grid, centering: centering}
}

// Add registers a new obstacle and enqueues its rasterization.
func (m *Manager) Add(aabb pvmath.AABB) ID {
	var id ID
	if n := len(m.freeList); n > 0 {
		id = m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.table[id-1] = aabb
		m.occupied[id-1] = true
	} else {
		m.nextID++
		id = m.nextID
		m.table = append(m.table, aabb)
		m.occupied = append(m.occupied, true)
	}

	m.mu.Lock()
	m.pending = append(m.pending, change{kind: changeAdd, aabb: aabb})
	m.mu.Unlock()
	return id
}

// Get returns the live AABB for id, or false if the id is unknown/removed.
func (m *Manager) Get(id ID) (pvmath.AABB, bool) {
	if id == 0 || int(id) > len(m.table) || !m.occupied[id-1] {
		return pvmath.AABB{}, false
	}
	return m.table[id-1], true
}

// Update replaces id's AABB. In static centering this enqueues Remove(old)
// then Add(new); in dynamic centering it only updates the table, since the
// periodic re-centring re-rasterizes everything.
func (m *Manager) Update(id ID, next pvmath.AABB) {
	if id == 0 || int(id) > len(m.table) || !m.occupied[id-1] {
		return
	}
	old := m.table[id-1]

	m.mu.Lock()
	if m.centering == fdtd.StaticCentering {
		m.pending = append(m.pending, change{kind: changeRemove, aabb: old})
		m.pending = append(m.pending, change{kind: changeAdd, aabb: next})
	}
	m.mu.Unlock()

	m.table[id-1] = next
}

// Remove retires id. In static centering this enqueues Remove(old); in
// dynamic centering the table update alone suffices.
func (m *Manager) Remove(id ID) {
	if id == 0 || int(id) > len(m.table) || !m.occupied[id-1] {
		return
	}
	old := m.table[id-1]

	m.mu.Lock()
	if m.centering == fdtd.StaticCentering {
		m.pending = append(m.pending, change{kind: changeRemove, aabb: old})
	}
	m.mu.Unlock()

	m.occupied[id-1] = false
	m.table[id-1] = pvmath.AABB{}
	m.freeList = append(m.freeList, id)
}

// PushChanges is called by the engine worker between FDTD iterations. In
// dynamic centering, if the listener has moved far enough it re-enqueues
// every live AABB and clears the grid first; then it drains the pending
// queue onto the grid in submission order.
func (m *Manager) PushChanges(listener pvmath.Vec2) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.centering == fdtd.DynamicCentering {
		moved := !m.haveLastListener ||
			abs(listener.X-m.lastListener.X) >= listenerDeltaThreshold ||
			abs(listener.Y-m.lastListener.Y) >= listenerDeltaThreshold
		if moved {
			for i, occ := range m.occupied {
				if occ {
					m.pending = append(m.pending, change{kind: changeAdd, aabb: m.table[i]})
				}
			}
			m.grid.ClearAABBs()
			m.lastListener = listener
			m.haveLastListener = true
		}
	}

	for _, c := range m.pending {
		switch c.kind {
		case changeAdd:
			m.grid.AddAABB(c.aabb, listener)
		case changeRemove:
			m.grid.RemoveAABB(c.aabb, listener)
		}
	}
	m.pending = m.pending[:0]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
