// Package analyzer extracts per-cell acoustic features from the Grid's
// impulse responses after each FDTD step: onset delay, obstruction gain,
// source radiation direction, lowpass cutoff, wet gain, RT60, and a
// geodesic listener-arrival direction found by a neighbour walk.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/freegrid"
	"github.com/planeverb/planeverb-go/internal/pvlog"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

// Result is the per-cell feature vector recomputed every engine iteration.
type Result struct {
	Occlusion         float64
	WetGain           float64
	RT60              float64
	Lowpass           float64
	ListenerDirection pvmath.Vec2
	SourceDirectivity pvmath.Vec2
}

var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Analyzer owns the per-cell result table and onset-delay scratch.
type Analyzer struct {
	grid *fdtd.Grid
	free *freegrid.FreeGrid

	results      []Result
	delaySamples []float64

	logger  *slog.Logger
	rtWarn  *pvlog.RateLimiter
}

func New(grid *fdtd.Grid, free *freegrid.FreeGrid, logger *slog.Logger) *Analyzer {
	dimX, dimY := grid.Dimensions()
	n := dimX * dimY
	return &Analyzer{
		grid:         grid,
		free:         free,
		results:      make([]Result, n),
		delaySamples: make([]float64, n),
		logger:       pvlog.Or(logger),
		rtWarn:       pvlog.NewRateLimiter(),
	}
}

// Analyze rescans every cell's impulse response and, in a second pass,
// resolves the geodesic listener-arrival direction.
func (a *Analyzer) Analyze(listener pvmath.Vec2) {
	dimX, dimY := a.grid.Dimensions()
	for i := range a.delaySamples {
		a.delaySamples[i] = math.Inf(1)
		a.results[i] = Result{}
	}

	for row := 0; row < dimY; row++ {
		for col := 0; col < dimX; col++ {
			idx := row*dimX + col
			resp := a.grid.Response(col, row)
			a.encodeResponse(idx, col, row, resp, listener)
		}
	}

	for row := 0; row < dimY; row++ {
		for col := 0; col < dimX; col++ {
			idx := row*dimX + col
			a.encodeListenerDirection(idx, col, row, listener)
		}
	}
}

func (a *Analyzer) encodeResponse(idx, col, row int, resp []fdtd.IRSample, listener pvmath.Vec2) {
	rate := a.grid.SamplingRate()

	onset := -1
	for s, samp := range resp {
		if math.Abs(samp.P) > fdtd.AudibleThresholdGain {
			onset = s
			break
		}
	}
	if onset == -1 {
		return // delaySamples already reset to +Inf; skip further analysis
	}
	a.delaySamples[idx] = float64(onset)

	dirSamples := int(fdtd.DryDirectionAnalysisLengthS * rate)
	dryEnd := onset + int(fdtd.DryGainAnalysisLengthS*rate)
	if dryEnd > len(resp) {
		dryEnd = len(resp)
	}
	dirEnd := onset + dirSamples
	if dirEnd > dryEnd {
		dirEnd = dryEnd
	}

	var eDry float64
	var flux pvmath.Vec2
	for s := onset; s < dirEnd; s++ {
		p := resp[s].P
		eDry += p * p
		flux.X += p * resp[s].Vx
		flux.Y += p * resp[s].Vy
	}
	for s := dirEnd; s < dryEnd; s++ {
		p := resp[s].P
		eDry += p * p
	}

	cellWorld := a.grid.GridToWorld(col, row, listener)
	eFreeR := a.free.EFreePerR(listener, cellWorld)
	var occlusion float64
	if eFreeR > 0 {
		occlusion = math.Sqrt(eDry / eFreeR)
	}

	fluxLen := flux.Length()
	denom := math.Max(fluxLen, 1)
	sourceDir := flux.Scale(-1 / denom)

	r := 1 / math.Max(occlusion, 0.001)
	lowpass := -147 + 18390/(1+math.Pow(r/12, 0.8))

	wetStart := dryEnd
	wetEnd := wetStart + int(fdtd.WetGainAnalysisLengthS*rate)
	if wetEnd > len(resp) {
		wetEnd = len(resp)
	}
	var eWet float64
	for s := wetStart; s < wetEnd; s++ {
		p := resp[s].P
		eWet += p * p
	}
	var wetGain float64
	if eAtOne := a.free.EAtOneMeter(); eAtOne > 0 {
		wetGain = math.Sqrt(eWet / eAtOne)
	}

	schroederOffset := int(fdtd.SchroederOffsetS * rate)
	rt60 := a.rt60(resp, dryEnd, len(resp)-schroederOffset, rate)
	if math.IsNaN(rt60) || math.IsInf(rt60, 0) {
		a.rtWarn.Once(fmt.Sprintf("cell-%d", idx), func() {
			a.logger.Warn("non-finite rt60", "cell", idx, "col", col, "row", row)
		})
	}

	a.results[idx] = Result{
		Occlusion:         occlusion,
		WetGain:           wetGain,
		RT60:              rt60,
		Lowpass:           lowpass,
		SourceDirectivity: sourceDir,
	}
}

// rt60 fits the backward Schroeder energy-decay curve between [start,end)
// with an ordinary least-squares line via gonum/stat and converts its slope
// to a decay time.
func (a *Analyzer) rt60(resp []fdtd.IRSample, start, end int, rate float64) float64 {
	if end <= start || start < 0 || end > len(resp) {
		return math.NaN()
	}
	n := end - start
	xs := make([]float64, n)
	ys := make([]float64, n)
	var edc float64
	j := 0
	for i := end - 1; i >= start; i-- {
		p := resp[i].P
		edc += p * p
		xs[j] = float64(i - start)
		ys[j] = 10 * math.Log10(edc)
		j++
	}
	_, slopeDBPerSample := stat.LinearRegression(xs, ys, nil, false)
	slopeDBPerSec := slopeDBPerSample * rate
	return -60 / slopeDBPerSec
}

func (a *Analyzer) encodeListenerDirection(idx, col, row int, listener pvmath.Vec2) {
	dimX, dimY := a.grid.Dimensions()
	wavelength := fdtd.C / a.grid.MaxFrequency()
	thresholdLOS := 0.3 * wavelength

	curCol, curRow, curIdx := col, row, idx
	for {
		curDelay := a.delaySamples[curIdx]
		curOcc := a.results[curIdx].Occlusion
		if !(curDelay > fdtd.DelayCloseThreshold && curOcc < fdtd.DistanceGainThreshold) {
			break
		}

		bestDelay := curDelay
		bestCol, bestRow := -1, -1
		for _, off := range neighborOffsets {
			nc, nr := curCol+off[0], curRow+off[1]
			if nc < 0 || nc >= dimX || nr < 0 || nr >= dimY {
				continue
			}
			nIdx := nr*dimX + nc
			nDelay := a.delaySamples[nIdx]
			nOcc := a.results[nIdx].Occlusion
			if math.IsInf(nDelay, 1) || nOcc <= 0 {
				continue
			}
			if nDelay < bestDelay {
				bestDelay = nDelay
				bestCol, bestRow = nc, nr
			}
		}
		if bestCol == -1 {
			break // no strictly improving neighbour
		}
		curCol, curRow = bestCol, bestRow
		curIdx = curRow*dimX + curCol
		curDelay = bestDelay

		geodesic := fdtd.C * curDelay / a.grid.SamplingRate()
		worldCell := a.grid.GridToWorld(curCol, curRow, listener)
		euclidean := worldCell.Sub(listener).Length()
		if math.Abs(geodesic-euclidean) < thresholdLOS {
			break // line of sight
		}
	}

	finalWorld := a.grid.GridToWorld(curCol, curRow, listener)
	a.results[idx].ListenerDirection = finalWorld.Sub(listener).Normalized()
}

// GetResult converts emitterWorld to a grid cell and returns its current
// result, or false if the position falls outside the grid footprint.
func (a *Analyzer) GetResult(emitterWorld, listener pvmath.Vec2) (Result, bool) {
	col, row := a.grid.WorldToGrid(emitterWorld, listener)
	dimX, dimY := a.grid.Dimensions()
	if col < 0 || col >= dimX || row < 0 || row >= dimY {
		return Result{}, false
	}
	return a.results[row*dimX+col], true
}
