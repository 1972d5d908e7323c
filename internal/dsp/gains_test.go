package dsp

import "testing"

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestBusGainsPartitionAtShortRT60(t *testing.T) {
	const gain = 1.0
	a := FindGainA(0.5, gain)
	b := FindGainB(0.5, gain)
	c := FindGainC(0.5, gain)
	if !almostEqual(a, 1, 1e-9) {
		t.Fatalf("gainA at rt60=T1 = %v, want 1", a)
	}
	if !almostEqual(b, 0, 1e-9) || !almostEqual(c, 0, 1e-9) {
		t.Fatalf("gainB/gainC at rt60=T1 = %v/%v, want 0/0", b, c)
	}
}

func TestBusGainsPartitionAtLongRT60(t *testing.T) {
	const gain = 1.0
	a := FindGainA(3.0, gain)
	b := FindGainB(3.0, gain)
	c := FindGainC(3.0, gain)
	if !almostEqual(c, 1, 1e-9) {
		t.Fatalf("gainC at rt60=T3 = %v, want 1", c)
	}
	if !almostEqual(a, 0, 1e-9) || !almostEqual(b, 0, 1e-9) {
		t.Fatalf("gainA/gainB at rt60=T3 = %v/%v, want 0/0", a, b)
	}
}

func TestBusGainsSumToGainAcrossRange(t *testing.T) {
	const gain = 0.7
	for rt60 := 0.0; rt60 <= 4.0; rt60 += 0.05 {
		sum := FindGainA(rt60, gain) + FindGainB(rt60, gain) + FindGainC(rt60, gain)
		if !almostEqual(sum, gain, 1e-9) {
			t.Fatalf("rt60=%v: gains sum to %v, want %v", rt60, sum, gain)
		}
	}
}
