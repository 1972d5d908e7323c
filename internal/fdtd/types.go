package fdtd

// Resolution is the maximum represented frequency, driving grid spacing.
type Resolution int

const (
	LowResolution     Resolution = 275
	MidResolution     Resolution = 375 // default
	HighResolution    Resolution = 500
	ExtremeResolution Resolution = 750
)

// BoundaryType selects the outer-edge termination. Only Absorbing is
// implemented; config validation rejects Reflecting.
type BoundaryType int

const (
	AbsorbingBoundary BoundaryType = iota
	ReflectingBoundary
)

// CenteringType controls whether the grid footprint is fixed in world
// space (Static) or re-centred on the listener as it moves (Dynamic).
type CenteringType int

const (
	StaticCentering CenteringType = iota
	DynamicCentering
)

// Physical constants of the simulated medium.
const (
	Rho     = 1.2041  // air density, kg/m^3
	C       = 343.21  // speed of sound, m/s
	Sqrt2   = 1.4142135623730951
	Sqrt3   = 1.7320508075688772
	ZAir    = Rho * C
	InvZAir = 1 / ZAir

	// AudibleThresholdGain is the onset-detection threshold, -80dB linear.
	AudibleThresholdGain = 1e-4

	DryDirectionAnalysisLengthS = 0.005
	DryGainAnalysisLengthS      = 0.01
	WetGainAnalysisLengthS      = 0.080
	SchroederOffsetS            = 0.01

	MaxAudibleFreq = 20000.0
	MinAudibleFreq = 20.0

	// PointsPerWavelength is the spatial oversampling factor used to derive
	// cell size from the configured resolution.
	PointsPerWavelength = 3.5

	DistanceGainThreshold = 0.891251 // -1dB linear
	DelayCloseThreshold   = 5.0      // samples
)

// Cell is one simulation grid sample: pressure, staggered velocity
// components, and the obstacle/boundary mask. b and bx are boolean per the
// redesign note (the source packs them as int16 fields that only ever hold
// 0 or 1).
type Cell struct {
	P, Vx, Vy float64
	B         bool // false inside an obstacle or on the outer border
	Bx        bool // false on the outer border's first column as well
	R         float64
}

// IRSample is the slim per-timestep record kept in a cell's impulse
// response: the analyzer only ever reads pressure and velocity, never the
// boundary mask, so the stored history is smaller than the live Cell.
type IRSample struct {
	P, Vx, Vy float64
}
