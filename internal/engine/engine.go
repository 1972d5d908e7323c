// Package engine is the acoustic engine's opaque handle: it owns the FDTD
// grid, free-field reference, geometry/emitter tables and analyzer, and
// runs the single background worker goroutine that steps them.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/planeverb/planeverb-go/internal/analyzer"
	"github.com/planeverb/planeverb-go/internal/emission"
	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/freegrid"
	"github.com/planeverb/planeverb-go/internal/geometry"
	"github.com/planeverb/planeverb-go/internal/pverr"
	"github.com/planeverb/planeverb-go/internal/pvlog"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// maxSimulationSamples bounds grid-cells * 1024 (a fixed per-cell sample
// count, not the configured response length) to catch a configuration that
// would blow past any reasonable memory budget before we get around to
// allocating per-cell impulse-response buffers.
const maxSimulationSamples = 512 * 1024 * 1024

// Config mirrors the Engine API's client-facing configuration struct.
type Config struct {
	GridSizeInMeters  pvmath.Vec2
	GridResolution    fdtd.Resolution
	GridBoundaryType  fdtd.BoundaryType
	TempFileDirectory string
	GridCenteringType fdtd.CenteringType
	GridWorldOffset   pvmath.Vec2
	MaxThreadUsage    int
}

// DefaultConfig returns the spec's default field values.
func DefaultConfig() Config {
	return Config{
		GridSizeInMeters:  pvmath.Vec2{X: 10, Y: 10},
		GridResolution:    fdtd.MidResolution,
		GridBoundaryType:  fdtd.AbsorbingBoundary,
		TempFileDirectory: ".",
		GridCenteringType: fdtd.StaticCentering,
	}
}

func (c Config) validate() error {
	if c.GridSizeInMeters.X <= 0 || c.GridSizeInMeters.Y <= 0 {
		return pverr.InvalidConfigf("grid size must be positive, got %+v", c.GridSizeInMeters)
	}
	switch c.GridResolution {
	case fdtd.LowResolution, fdtd.MidResolution, fdtd.HighResolution, fdtd.ExtremeResolution:
	default:
		return pverr.InvalidConfigf("unsupported grid resolution %v", c.GridResolution)
	}
	if c.GridBoundaryType != fdtd.AbsorbingBoundary {
		return pverr.InvalidConfigf("boundary type %v is unsupported", c.GridBoundaryType)
	}
	if c.TempFileDirectory == "" {
		return pverr.InvalidConfigf("temp file directory must be set")
	}
	if c.MaxThreadUsage < 0 {
		return pverr.InvalidConfigf("max thread usage must be non-negative, got %d", c.MaxThreadUsage)
	}
	return nil
}

func (c Config) toGridConfig() fdtd.Config {
	return fdtd.Config{
		SizeInMeters:  c.GridSizeInMeters,
		Resolution:    c.GridResolution,
		BoundaryType:  c.GridBoundaryType,
		CenteringType: c.GridCenteringType,
		WorldOffset:   c.GridWorldOffset,
	}
}

// Option configures optional Engine collaborators, mirroring the teacher's
// functional-option shape for constructing playback sessions.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// AcousticResult is the per-emitter output returned by GetOutput. A query
// that finds no data returns the sentinel values Occlusion=-1,
// ListenerDirection=(0,0), matching the source's IsOutputValid convention.
type AcousticResult struct {
	Occlusion         float64
	WetGain           float64
	RT60              float64
	Lowpass           float64
	ListenerDirection pvmath.Vec2
	SourceDirectivity pvmath.Vec2
}

func invalidResult() AcousticResult {
	return AcousticResult{Occlusion: -1, ListenerDirection: pvmath.Vec2{}}
}

// IsOutputValid reports whether r carries real analysis data.
func IsOutputValid(r AcousticResult) bool { return r.Occlusion != -1 }

// Engine is the opaque handle returned by NewEngine.
type Engine struct {
	cfg Config

	grid     *fdtd.Grid
	free     *freegrid.FreeGrid
	geo      *geometry.Manager
	emitters *emission.Manager
	analyzer *analyzer.Analyzer

	listener atomic.Pointer[pvmath.Vec3]
	stop     chan struct{}
	wg       sync.WaitGroup

	logger    *slog.Logger
	closeOnce sync.Once
}

// NewEngine validates cfg, builds the subsystems, and starts the
// background worker goroutine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{}
	if err := e.start(cfg, opts...); err != nil {
		return nil, err
	}
	return e, nil
}

// start builds the subsystems into a freshly zeroed or just-Close'd Engine
// and launches the worker goroutine. Kept separate from NewEngine so
// ChangeSettings can reuse it on the same handle without copying a struct
// that embeds a mutex, atomic pointer, and WaitGroup.
func (e *Engine) start(cfg Config, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	gridCfg := cfg.toGridConfig()
	fMax := float64(cfg.GridResolution)
	estW := int(cfg.GridSizeInMeters.X / (fdtd.C / fMax / fdtd.PointsPerWavelength))
	estH := int(cfg.GridSizeInMeters.Y / (fdtd.C / fMax / fdtd.PointsPerWavelength))
	if int64(estW+1)*int64(estH+1)*int64(1024) > maxSimulationSamples {
		return pverr.NotEnoughMemoryf("grid of %dx%d cells exceeds the simulation memory budget", estW+1, estH+1)
	}

	grid, err := fdtd.NewGrid(gridCfg)
	if err != nil {
		return pverr.InvalidConfigf("%v", err)
	}
	free, err := freegrid.New(gridCfg)
	if err != nil {
		return pverr.InvalidConfigf("%v", err)
	}

	e.cfg = cfg
	e.grid = grid
	e.free = free
	e.geo = geometry.NewManager(grid, cfg.GridCenteringType)
	e.emitters = emission.NewManager()
	e.analyzer = analyzer.New(grid, free, o.logger)
	e.stop = make(chan struct{})
	e.logger = pvlog.Or(o.logger)
	e.closeOnce = sync.Once{}

	initial := pvmath.Vec3{}
	e.listener.Store(&initial)

	e.wg.Add(1)
	go e.run()
	return nil
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stop:
			return
		default:
		}
		listener := *e.listener.Load()
		plane := listener.Plane()
		e.grid.StepImpulse(plane)
		e.analyzer.Analyze(plane)
		e.geo.PushChanges(plane)
	}
}

// Close stops the background worker and waits for it to exit.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stop)
		e.wg.Wait()
	})
	return nil
}

// ChangeSettings tears down and reconstructs the engine's subsystems with a
// new configuration, equivalent to Close followed by NewEngine on the same
// handle.
func (e *Engine) ChangeSettings(cfg Config) error {
	if err := e.Close(); err != nil {
		return err
	}
	return e.start(cfg, WithLogger(e.logger))
}

func (e *Engine) SetListenerPosition(pos pvmath.Vec3) {
	e.listener.Store(&pos)
}

func (e *Engine) listenerPos() pvmath.Vec3 { return *e.listener.Load() }

func (e *Engine) AddEmitter(pos pvmath.Vec3) emission.ID { return e.emitters.Add(pos) }
func (e *Engine) UpdateEmitter(id emission.ID, pos pvmath.Vec3) { e.emitters.Update(id, pos) }
func (e *Engine) RemoveEmitter(id emission.ID) { e.emitters.Remove(id) }

func (e *Engine) AddGeometry(aabb pvmath.AABB) geometry.ID { return e.geo.Add(aabb) }
func (e *Engine) UpdateGeometry(id geometry.ID, aabb pvmath.AABB) { e.geo.Update(id, aabb) }
func (e *Engine) RemoveGeometry(id geometry.ID) { e.geo.Remove(id) }

// GetOutput returns the latest analysis for emitter id, or the sentinel
// AcousticResult and false if id is unknown or falls outside the grid.
func (e *Engine) GetOutput(id emission.ID) (AcousticResult, bool) {
	pos, ok := e.emitters.Get(id)
	if !ok {
		return invalidResult(), false
	}
	listener := e.listenerPos()
	res, ok := e.analyzer.GetResult(pos.Plane(), listener.Plane())
	if !ok {
		return invalidResult(), false
	}
	return AcousticResult{
		Occlusion:         res.Occlusion,
		WetGain:           res.WetGain,
		RT60:              res.RT60,
		Lowpass:           res.Lowpass,
		ListenerDirection: res.ListenerDirection,
		SourceDirectivity: res.SourceDirectivity,
	}, true
}

// GetImpulseResponse returns the recorded per-sample history for the cell
// nearest worldPos, for debug tooling.
func (e *Engine) GetImpulseResponse(worldPos pvmath.Vec3) ([]fdtd.IRSample, bool) {
	listener := e.listenerPos()
	col, row := e.grid.WorldToGrid(worldPos.Plane(), listener.Plane())
	resp := e.grid.Response(col, row)
	if resp == nil {
		return nil, false
	}
	return resp, true
}
