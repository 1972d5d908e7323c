// Package planeverb computes real-time acoustic occlusion, reverb send,
// and spatialization data for a 2D scene using a finite-difference
// time-domain wave simulation, and renders that data into audio via a
// companion DSP context.
package planeverb

import (
	"log/slog"

	"github.com/planeverb/planeverb-go/internal/emission"
	"github.com/planeverb/planeverb-go/internal/engine"
	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/geometry"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// Re-exported grid parameters so callers never need to import the
// internal packages directly.
type (
	Resolution    = fdtd.Resolution
	BoundaryType  = fdtd.BoundaryType
	CenteringType = fdtd.CenteringType
	Vec2          = pvmath.Vec2
	Vec3          = pvmath.Vec3
	AABB          = pvmath.AABB
	EmitterID     = emission.ID
	GeometryID    = geometry.ID
	AcousticResult = engine.AcousticResult
)

const (
	LowResolution     = fdtd.LowResolution
	MidResolution     = fdtd.MidResolution
	HighResolution    = fdtd.HighResolution
	ExtremeResolution = fdtd.ExtremeResolution

	AbsorbingBoundary = fdtd.AbsorbingBoundary

	StaticCentering  = fdtd.StaticCentering
	DynamicCentering = fdtd.DynamicCentering
)

// IsOutputValid reports whether r carries real analysis data rather than
// the engine's "no data yet" sentinel.
func IsOutputValid(r AcousticResult) bool { return engine.IsOutputValid(r) }

// Config configures the acoustic engine.
type Config = engine.Config

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config { return engine.DefaultConfig() }

// Option configures optional Engine collaborators.
type Option = engine.Option

// WithLogger installs a structured logger for the engine's background
// worker and analyzer.
func WithLogger(l *slog.Logger) Option { return engine.WithLogger(l) }

// Engine is the opaque acoustic simulation handle. Create one with
// NewEngine and release it with Close once the scene is torn down.
type Engine struct {
	e *engine.Engine
}

// NewEngine validates cfg, builds the FDTD grid and its supporting tables,
// and starts the background simulation worker.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	e, err := engine.NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{e: e}, nil
}

// Close stops the background worker and waits for it to exit.
func (p *Engine) Close() error { return p.e.Close() }

// ChangeSettings tears down and reconstructs the engine's simulation with
// a new configuration.
func (p *Engine) ChangeSettings(cfg Config) error { return p.e.ChangeSettings(cfg) }

// SetListenerPosition moves the listener used by both the simulation's
// dynamic re-centering and every subsequent GetOutput query.
func (p *Engine) SetListenerPosition(pos Vec3) { p.e.SetListenerPosition(pos) }

// AddEmitter registers a new sound source at pos and returns its id.
func (p *Engine) AddEmitter(pos Vec3) EmitterID { return p.e.AddEmitter(pos) }

// UpdateEmitter moves an existing emitter.
func (p *Engine) UpdateEmitter(id EmitterID, pos Vec3) { p.e.UpdateEmitter(id, pos) }

// RemoveEmitter releases an emitter's id for reuse.
func (p *Engine) RemoveEmitter(id EmitterID) { p.e.RemoveEmitter(id) }

// AddGeometry registers an occluding box and returns its id.
func (p *Engine) AddGeometry(aabb AABB) GeometryID { return p.e.AddGeometry(aabb) }

// UpdateGeometry replaces an existing box's extents/position.
func (p *Engine) UpdateGeometry(id GeometryID, aabb AABB) { p.e.UpdateGeometry(id, aabb) }

// RemoveGeometry clears an occluding box.
func (p *Engine) RemoveGeometry(id GeometryID) { p.e.RemoveGeometry(id) }

// GetOutput returns the latest acoustic analysis for emitter id relative
// to the current listener position, or false if id is unknown.
func (p *Engine) GetOutput(id EmitterID) (AcousticResult, bool) { return p.e.GetOutput(id) }

// GetImpulseResponse returns the raw per-sample simulation history
// recorded at the grid cell nearest worldPos, for debug tooling.
func (p *Engine) GetImpulseResponse(worldPos Vec3) ([]fdtd.IRSample, bool) {
	return p.e.GetImpulseResponse(worldPos)
}
