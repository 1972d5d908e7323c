package fdtd

import "math"

// GaussianPulse precomputes the excitation samples injected into the
// listener's pressure cell at each timestep of an impulse response.
// sigma = 1/(pi * fMax/2); the pulse peaks at t = 2*sigma.
func GaussianPulse(fMax float64, rate float64, n int) []float64 {
	sigma := 1 / (math.Pi * fMax / 2)
	delay := 2 * sigma
	dt := 1 / rate
	out := make([]float64, n)
	for i := range out {
		t := float64(i) * dt
		x := (t - delay) / sigma
		out[i] = math.Exp(-x * x)
	}
	return out
}
