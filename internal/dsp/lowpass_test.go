package dsp

import "testing"

func TestLowpassCoefficientsLerpTowardTarget(t *testing.T) {
	const rate = 44100.0
	f := NewLowpassFilter(rate, 1000)
	startX := f.xCoeff
	targetX, _, _ := coeffsFor(rate, 4000)

	numFrames := 512
	smoothing := 5.0
	alpha := 1 / (float64(numFrames) * smoothing)

	buf := make([]float32, numFrames)
	f.Process(buf, 0, 1, numFrames, 4000, alpha)

	want := lerpN(startX, targetX, alpha, numFrames)
	if got := f.xCoeff; (got-want) > 1e-9 || (want-got) > 1e-9 {
		t.Fatalf("xCoeff after callback = %v, want %v", got, want)
	}
	if f.Cutoff() != 4000 {
		t.Fatalf("Cutoff() = %v, want 4000", f.Cutoff())
	}
}

func TestLowpassPersistsStateAcrossCalls(t *testing.T) {
	f := NewLowpassFilter(44100, 8000)
	buf1 := make([]float32, 32)
	for i := range buf1 {
		buf1[i] = 1
	}
	f.Process(buf1, 0, 1, len(buf1), 8000, 1)

	d1, d2 := f.yDelay1, f.yDelay2
	buf2 := make([]float32, 4)
	f.Process(buf2, 0, 1, len(buf2), 8000, 1)
	if f.yDelay1 == d1 && f.yDelay2 == d2 && buf2[0] == 0 {
		t.Fatal("expected filter memory to persist and influence the next call")
	}
}
