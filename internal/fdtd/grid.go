package fdtd

import (
	"fmt"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// Config describes the physical extent and fidelity of a Grid.
type Config struct {
	SizeInMeters  pvmath.Vec2
	Resolution    Resolution
	BoundaryType  BoundaryType
	CenteringType CenteringType
	WorldOffset   pvmath.Vec2
}

func (c Config) validate() error {
	if c.SizeInMeters.X <= 0 || c.SizeInMeters.Y <= 0 {
		return fmt.Errorf("grid size must be positive, got %+v", c.SizeInMeters)
	}
	if c.BoundaryType != AbsorbingBoundary {
		return fmt.Errorf("boundary type %v is unsupported", c.BoundaryType)
	}
	return nil
}

// Grid owns the 2D FDTD cell array, its per-cell impulse-response history,
// and the excitation pulse used to drive one impulse response.
type Grid struct {
	cfg Config

	dx, dt, rate, fMax float64
	courant            float64 // c*dt/dx, shared by the pressure and velocity updates

	dimX, dimY int // (W+1) x (H+1) staggered velocity grid
	cells      []Cell

	respLen int
	pulse   []float64
	ir      [][]IRSample // len(cells) x respLen
}

// NewGrid validates cfg and builds a Grid with its border mask initialized
// to free space.
func NewGrid(cfg Config) (*Grid, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	fMax := float64(cfg.Resolution)
	minWavelength := C / fMax
	dx := minWavelength / PointsPerWavelength
	dt := dx / (1.5 * C)
	rate := 1 / dt

	w := int(cfg.SizeInMeters.X / dx)
	h := int(cfg.SizeInMeters.Y / dx)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("grid size %+v too small for resolution %v (dx=%.4f)", cfg.SizeInMeters, cfg.Resolution, dx)
	}

	tIR := Sqrt2*(cfg.SizeInMeters.X/2)/C + 0.25
	respLen := int(rate*tIR) + 1

	g := &Grid{
		cfg:     cfg,
		dx:      dx,
		dt:      dt,
		rate:    rate,
		fMax:    fMax,
		courant: C * dt / dx,
		dimX:    w + 1,
		dimY:    h + 1,
		respLen: respLen,
		pulse:   GaussianPulse(fMax, rate, respLen),
	}
	g.cells = make([]Cell, g.dimX*g.dimY)
	g.ir = make([][]IRSample, len(g.cells))
	for i := range g.ir {
		g.ir[i] = make([]IRSample, respLen)
	}
	g.resetMask()
	return g, nil
}

func (g *Grid) index(col, row int) int { return row*g.dimX + col }

func (g *Grid) isBorder(col, row int) bool { return row == g.dimY-1 || col == g.dimX-1 }

// resetMask restores every cell to the free-space border-aware mask:
// the last row/column are padding (b=bx=false), the first column carries
// b=true but bx=false, and everywhere else both flags are true.
func (g *Grid) resetMask() {
	for row := 0; row < g.dimY; row++ {
		for col := 0; col < g.dimX; col++ {
			idx := g.index(col, row)
			switch {
			case g.isBorder(col, row):
				g.cells[idx].B, g.cells[idx].Bx = false, false
			case col == 0:
				g.cells[idx].B, g.cells[idx].Bx = true, false
			default:
				g.cells[idx].B, g.cells[idx].Bx = true, true
			}
			g.cells[idx].R = 0
		}
	}
}

// DX returns the grid's cell size in metres.
func (g *Grid) DX() float64 { return g.dx }

// SamplingRate returns the FDTD timestep rate (1/dt).
func (g *Grid) SamplingRate() float64 { return g.rate }

// ResponseLength returns the number of samples in one impulse response.
func (g *Grid) ResponseLength() int { return g.respLen }

// Dimensions returns the (W+1, H+1) staggered-velocity grid size in cells.
func (g *Grid) Dimensions() (int, int) { return g.dimX, g.dimY }

// MaxFrequency returns the configured resolution as a frequency in Hz.
func (g *Grid) MaxFrequency() float64 { return g.fMax }

// WorldToGrid converts a world-space point to grid cell coordinates, given
// the current listener position and the grid's centering mode.
func (g *Grid) WorldToGrid(world, listener pvmath.Vec2) (col, row int) {
	half := pvmath.Vec2{X: g.cfg.SizeInMeters.X / 2, Y: g.cfg.SizeInMeters.Y / 2}
	var p pvmath.Vec2
	if g.cfg.CenteringType == StaticCentering {
		p = world.Add(half).Sub(g.cfg.WorldOffset)
	} else {
		p = world.Sub(listener).Add(half).Sub(g.cfg.WorldOffset)
	}
	return int(p.X / g.dx), int(p.Y / g.dx)
}

// GridToWorld is the inverse of WorldToGrid.
func (g *Grid) GridToWorld(col, row int, listener pvmath.Vec2) pvmath.Vec2 {
	half := pvmath.Vec2{X: g.cfg.SizeInMeters.X / 2, Y: g.cfg.SizeInMeters.Y / 2}
	w := pvmath.Vec2{X: float64(col) * g.dx, Y: float64(row) * g.dx}
	if g.cfg.CenteringType == StaticCentering {
		return w.Sub(half).Add(g.cfg.WorldOffset)
	}
	return w.Add(listener).Sub(half).Add(g.cfg.WorldOffset)
}

func (g *Grid) inBounds(col, row int) bool {
	return col >= 0 && col < g.dimX && row >= 0 && row < g.dimY
}

// AddAABB rasterizes a obstacle onto the grid, relative to listener.
func (g *Grid) AddAABB(a pvmath.AABB, listener pvmath.Vec2) {
	startCol, startRow, endCol, endRow := g.rect(a, listener)
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if !g.inBounds(col, row) {
				continue
			}
			idx := g.index(col, row)
			g.cells[idx].B, g.cells[idx].Bx = false, false
			g.cells[idx].R = a.Absorption
		}
	}
}

// RemoveAABB restores the border-aware free-space mask over the region a
// previously covered.
func (g *Grid) RemoveAABB(a pvmath.AABB, listener pvmath.Vec2) {
	startCol, startRow, endCol, endRow := g.rect(a, listener)
	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			if !g.inBounds(col, row) {
				continue
			}
			idx := g.index(col, row)
			switch {
			case g.isBorder(col, row):
				g.cells[idx].B, g.cells[idx].Bx = false, false
			case col == 0:
				g.cells[idx].B, g.cells[idx].Bx = true, false
			default:
				g.cells[idx].B, g.cells[idx].Bx = true, true
			}
			g.cells[idx].R = 0
		}
	}
}

// ClearAABBs resets the whole grid back to free space.
func (g *Grid) ClearAABBs() { g.resetMask() }

func (g *Grid) rect(a pvmath.AABB, listener pvmath.Vec2) (startCol, startRow, endCol, endRow int) {
	half := pvmath.Vec2{X: a.Width / 2, Y: a.Height / 2}
	minW := a.Center.Sub(half)
	maxW := a.Center.Add(half)
	startCol, startRow = g.WorldToGrid(minW, listener)
	endCol, endRow = g.WorldToGrid(maxW, listener)
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return
}

// CellAt returns a copy of the live (mutable) cell state, mainly for tests
// and the border-mask invariant checks.
func (g *Grid) CellAt(col, row int) Cell { return g.cells[g.index(col, row)] }

// Response returns the recorded impulse response for the cell at (col,row).
func (g *Grid) Response(col, row int) []IRSample {
	if !g.inBounds(col, row) {
		return nil
	}
	return g.ir[g.index(col, row)]
}

// StepImpulse runs one full impulse response with the excitation applied at
// the listener's grid cell, recording every cell's (p, vx, vy) history.
func (g *Grid) StepImpulse(listener pvmath.Vec2) {
	for i := range g.cells {
		g.cells[i].P, g.cells[i].Vx, g.cells[i].Vy = 0, 0, 0
	}
	lc, lr := g.WorldToGrid(listener, listener)

	for t := 0; t < g.respLen; t++ {
		g.updatePressure()
		g.updateVelocity()
		g.applyOuterBoundary()
		g.recordAndExcite(t, lc, lr)
	}
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (g *Grid) updatePressure() {
	c := g.courant
	for row := 0; row < g.dimY-1; row++ {
		for col := 0; col < g.dimX-1; col++ {
			idx := g.index(col, row)
			beta := boolToF(g.cells[idx].B)
			vyUp := g.cells[g.index(col, row+1)].Vy
			vxRight := g.cells[g.index(col+1, row)].Vx
			g.cells[idx].P = beta * (g.cells[idx].P - c*((vyUp-g.cells[idx].Vy)+(vxRight-g.cells[idx].Vx)))
		}
	}
}

func (g *Grid) updateVelocity() {
	c := g.courant
	for row := 1; row < g.dimY; row++ {
		for col := 0; col < g.dimX; col++ {
			idx := g.index(col, row)
			above := g.index(col, row-1)
			beta, betaN := boolToF(g.cells[idx].B), boolToF(g.cells[above].B)
			y := (1 - g.cells[idx].R) / (1 + g.cells[idx].R)
			yN := (1 - g.cells[above].R) / (1 + g.cells[above].R)
			p, pAbove := g.cells[idx].P, g.cells[above].P
			g.cells[idx].Vy = beta*betaN*(g.cells[idx].Vy-c*(p-pAbove)) +
				(betaN-beta)*(beta*yN+betaN*y)*(pAbove*betaN+p*beta)
		}
	}
	for row := 0; row < g.dimY; row++ {
		for col := 1; col < g.dimX; col++ {
			idx := g.index(col, row)
			left := g.index(col-1, row)
			beta, betaL := boolToF(g.cells[idx].B), boolToF(g.cells[left].B)
			y := (1 - g.cells[idx].R) / (1 + g.cells[idx].R)
			yL := (1 - g.cells[left].R) / (1 + g.cells[left].R)
			p, pLeft := g.cells[idx].P, g.cells[left].P
			g.cells[idx].Vx = beta*betaL*(g.cells[idx].Vx-c*(p-pLeft)) +
				(betaL-beta)*(beta*yL+betaL*y)*(pLeft*betaL+p*beta)
		}
	}
}

// applyOuterBoundary enforces the first-order Mur absorbing condition on
// the outer velocity nodes, overriding whatever the interior update left
// there.
func (g *Grid) applyOuterBoundary() {
	for col := 0; col < g.dimX; col++ {
		g.cells[g.index(col, 0)].Vy = -g.cells[g.index(col, 0)].P * InvZAir
		g.cells[g.index(col, g.dimY-1)].Vy = g.cells[g.index(col, g.dimY-2)].P * InvZAir
	}
	for row := 0; row < g.dimY; row++ {
		g.cells[g.index(0, row)].Vx = -g.cells[g.index(0, row)].P * InvZAir
		g.cells[g.index(g.dimX-1, row)].Vx = g.cells[g.index(g.dimX-2, row)].P * InvZAir
	}
}

func (g *Grid) recordAndExcite(t, listenerCol, listenerRow int) {
	for i := range g.cells {
		g.ir[i][t] = IRSample{P: g.cells[i].P, Vx: g.cells[i].Vx, Vy: g.cells[i].Vy}
	}
	if g.inBounds(listenerCol, listenerRow) {
		g.cells[g.index(listenerCol, listenerRow)].P += g.pulse[t]
	}
}
