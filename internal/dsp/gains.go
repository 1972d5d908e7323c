package dsp

import "math"

// The three reverb buses partition a source's wet gain across RT60: bus A
// (early, short rooms) dominates below T1, bus C (long, cathedral-like
// decay) dominates above T3, and bus B fills the space between.
const (
	T1    = 0.5
	T2    = 1.0
	T3    = 3.0
	tStar = 0.1
)

func term(t float64) float64 { return math.Pow(10, -3*tStar/t) }

// ratio is 1 at rt60==lo and 0 at rt60==hi; it's the shared shape behind
// both FindGainA's downward ramp and FindGainC's (inverted) upward one.
func ratio(lo, hi, rt60 float64) float64 {
	return (term(hi) - term(rt60)) / (term(hi) - term(lo))
}

// FindGainA returns the portion of gain routed to the early-reflection bus.
func FindGainA(rt60, gain float64) float64 {
	switch {
	case rt60 < T1:
		return gain
	case rt60 > T2:
		return 0
	default:
		return gain * ratio(T1, T2, rt60)
	}
}

// FindGainC returns the portion of gain routed to the long-decay bus.
func FindGainC(rt60, gain float64) float64 {
	switch {
	case rt60 > T3:
		return gain
	case rt60 < T2:
		return 0
	default:
		return gain * (1 - ratio(T2, T3, rt60))
	}
}

// FindGainB fills whatever A and C don't claim, so the three buses always
// sum to gain.
func FindGainB(rt60, gain float64) float64 {
	switch {
	case rt60 < T1:
		return 0
	case rt60 > T3:
		return 0
	case rt60 <= T2:
		return gain - FindGainA(rt60, gain)
	default:
		return gain - FindGainC(rt60, gain)
	}
}
