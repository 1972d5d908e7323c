package audiosink

import "testing"

type constSource struct{}

func (constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = 1
	}
}

func TestDurationSourceFinishesAfterTargetFrames(t *testing.T) {
	d := NewDurationSource(constSource{}, 10)
	buf := make([]float32, 12) // 6 frames
	if d.Finished() {
		t.Fatal("expected not finished before any Process call")
	}
	d.Process(buf)
	if d.Finished() {
		t.Fatal("expected not finished after 6 of 10 frames")
	}
	d.Process(buf)
	if !d.Finished() {
		t.Fatal("expected finished after 12 of 10 frames")
	}
}

func TestDurationSourceStaysFinished(t *testing.T) {
	d := NewDurationSource(constSource{}, 1)
	buf := make([]float32, 8)
	d.Process(buf)
	d.Process(buf)
	if !d.Finished() {
		t.Fatal("expected DurationSource to remain finished once exhausted")
	}
}
