// Package freegrid computes the free-field reference energy the Analyzer
// normalizes obstruction gain and wet gain against: the energy a listener
// would receive from an emitter at a known distance with no obstacles at
// all, measured once at construction by running a throwaway FDTD grid.
package freegrid

import (
	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// FreeGrid holds the single scalar reference energy E_free, scaled by
// distance at query time to approximate 2D 1/r energy decay.
type FreeGrid struct {
	eFree float64
}

// New builds a temporary Grid matching cfg's resolution and footprint, runs
// one impulse response with the listener at the world origin, and measures
// the energy arriving roughly 1m away.
func New(cfg fdtd.Config) (*FreeGrid, error) {
	g, err := fdtd.NewGrid(cfg)
	if err != nil {
		return nil, err
	}

	listener := pvmath.Vec2{}
	g.StepImpulse(listener)

	lc, lr := g.WorldToGrid(listener, listener)
	cellsAway := int(1/g.DX() + 0.5)
	if cellsAway < 1 {
		cellsAway = 1
	}
	resp := g.Response(lc+cellsAway, lr)
	if resp == nil {
		resp = g.Response(lc, lr)
	}

	numSamples := int(fdtd.DryGainAnalysisLengthS*g.SamplingRate()) + int(g.SamplingRate()/fdtd.C) + 1
	if numSamples > len(resp) {
		numSamples = len(resp)
	}
	var sum float64
	for i := 0; i < numSamples; i++ {
		sum += resp[i].P * resp[i].P
	}

	rWorld := float64(cellsAway) * g.DX()
	return &FreeGrid{eFree: rWorld * sum}, nil
}

// EFreePerR returns the free-field reference energy scaled for the given
// listener/emitter pair, applying a 2D 1/r energy decay with a 1m floor.
func (f *FreeGrid) EFreePerR(listener, emitter pvmath.Vec2) float64 {
	dist := emitter.Sub(listener).Length()
	if dist < 1 {
		dist = 1
	}
	return f.eFree / dist
}

// EAtOneMeter returns the raw reference energy at 1m.
func (f *FreeGrid) EAtOneMeter() float64 { return f.eFree }
