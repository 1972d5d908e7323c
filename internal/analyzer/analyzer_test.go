package analyzer

import (
	"math"
	"testing"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/freegrid"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, *fdtd.Grid) {
	t.Helper()
	cfg := fdtd.Config{
		SizeInMeters: pvmath.Vec2{X: 10, Y: 10},
		Resolution:   fdtd.LowResolution,
		BoundaryType: fdtd.AbsorbingBoundary,
	}
	g, err := fdtd.NewGrid(cfg)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	fg, err := freegrid.New(cfg)
	if err != nil {
		t.Fatalf("freegrid.New: %v", err)
	}
	return New(g, fg, nil), g
}

func TestGetResultOutOfBounds(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	listener := pvmath.Vec2{X: 0, Y: 0}
	a.grid.StepImpulse(listener)
	a.Analyze(listener)

	if _, ok := a.GetResult(pvmath.Vec2{X: 1000, Y: 1000}, listener); ok {
		t.Fatal("expected out-of-bounds position to report no data")
	}
}

func TestAnalyzeLineOfSight(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	listener := pvmath.Vec2{X: 0, Y: 0}
	emitter := pvmath.Vec2{X: 1, Y: 0}
	a.grid.StepImpulse(listener)
	a.Analyze(listener)

	res, ok := a.GetResult(emitter, listener)
	if !ok {
		t.Fatal("expected in-bounds emitter to produce a result")
	}
	if res.Occlusion <= 0 {
		t.Fatalf("expected positive occlusion in line of sight, got %v", res.Occlusion)
	}
	if res.Lowpass < fdtd.MinAudibleFreq || res.Lowpass > fdtd.MaxAudibleFreq*1.5 {
		t.Fatalf("expected a plausible lowpass cutoff, got %v", res.Lowpass)
	}
}

func TestRT60RecoversKnownDecay(t *testing.T) {
	a, g := newTestAnalyzer(t)
	rate := g.SamplingRate()

	beta := 0.002 // decay rate in samples^-1
	n := 4000
	resp := make([]fdtd.IRSample, n)
	for i := range resp {
		resp[i] = fdtd.IRSample{P: math.Exp(-float64(i) * beta)}
	}

	start := 100
	end := n - 50
	got := a.rt60(resp, start, end, rate)

	want := -60 / (20 * math.Log10(math.E) * beta * rate)
	if math.Abs((got-want)/want) > 0.05 {
		t.Fatalf("rt60 = %v, want within 5%% of %v", got, want)
	}
}
