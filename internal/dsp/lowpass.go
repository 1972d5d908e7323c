package dsp

import "math"

// LowpassFilter is a 2nd-order Butterworth IIR in direct-form II
// transposed, whose coefficients are linearly interpolated toward a new
// target cutoff over the course of a single Process call.
type LowpassFilter struct {
	sampleRate float64
	cutoff     float64

	yDelay1, yDelay2         float64
	xCoeff, y1Coeff, y2Coeff float64
}

const sqrt2 = math.Sqrt2

func NewLowpassFilter(sampleRate, cutoff float64) *LowpassFilter {
	f := &LowpassFilter{sampleRate: sampleRate}
	f.SetCutoff(cutoff)
	return f
}

func coeffsFor(sampleRate, cutoff float64) (x, y1, y2 float64) {
	t := 2 * math.Pi * cutoff / sampleRate
	y := 1 / (1 + sqrt2*t + t*t)
	return t * t * y, (2 + sqrt2*t) * y, -y
}

// SetCutoff resets the filter's coefficients immediately, with no
// interpolation. Process is what a live callback should call instead.
func (f *LowpassFilter) SetCutoff(cutoff float64) {
	f.cutoff = cutoff
	f.xCoeff, f.y1Coeff, f.y2Coeff = coeffsFor(f.sampleRate, cutoff)
}

func (f *LowpassFilter) Cutoff() float64 { return f.cutoff }

// Process filters buffer[channel], buffer[channel+maxChannels], ... in
// place for numFrames frames, lerping the coefficient triple toward
// targetCutoff's with the given per-sample factor. Filter state (the two
// y-delays) persists across calls.
func (f *LowpassFilter) Process(buffer []float32, channel, maxChannels, numFrames int, targetCutoff, lerpFactor float64) {
	targetX, targetY1, targetY2 := coeffsFor(f.sampleRate, targetCutoff)
	curX, curY1, curY2 := f.xCoeff, f.y1Coeff, f.y2Coeff

	idx := channel
	for i := 0; i < numFrames; i++ {
		x := float64(buffer[idx])
		y := curX*x + curY1*f.yDelay1 + curY2*f.yDelay2
		buffer[idx] = float32(y)

		f.yDelay2 = f.yDelay1
		f.yDelay1 = y
		idx += maxChannels

		curX = lerp(curX, targetX, lerpFactor)
		curY1 = lerp(curY1, targetY1, lerpFactor)
		curY2 = lerp(curY2, targetY2, lerpFactor)
	}

	f.xCoeff, f.y1Coeff, f.y2Coeff = curX, curY1, curY2
	f.cutoff = targetCutoff
}

func lerp(a, b, alpha float64) float64 { return a + (b-a)*alpha }

func lerpN(a, b, alpha float64, n int) float64 {
	for i := 0; i < n; i++ {
		a = lerp(a, b, alpha)
	}
	return a
}
