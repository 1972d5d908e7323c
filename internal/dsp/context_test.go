package dsp

import (
	"testing"

	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxEmitters = 2
	c, err := NewContext(cfg)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return c
}

func TestEmitterCapEnforced(t *testing.T) {
	c := newTestContext(t)
	if _, ok := c.AddEmitter(); !ok {
		t.Fatal("expected first emitter to be added")
	}
	if _, ok := c.AddEmitter(); !ok {
		t.Fatal("expected second emitter to be added")
	}
	if _, ok := c.AddEmitter(); ok {
		t.Fatal("expected third emitter to exceed MaxEmitters=2")
	}
}

func TestEmitterIDRecycledAfterRemove(t *testing.T) {
	c := newTestContext(t)
	id, _ := c.AddEmitter()
	c.RemoveEmitter(id)
	next, ok := c.AddEmitter()
	if !ok {
		t.Fatal("expected slot to be reusable after remove")
	}
	if next != id {
		t.Fatalf("expected recycled id %v, got %v", id, next)
	}
}

func monoStereo(n int, val float32) []float32 {
	buf := make([]float32, n*2)
	for i := 0; i < n; i++ {
		buf[2*i] = val
		buf[2*i+1] = val
	}
	return buf
}

func TestSendSourceCentredPansEqually(t *testing.T) {
	c := newTestContext(t)
	id, _ := c.AddEmitter()
	c.SetListenerTransform(pvmath.Vec3{}, pvmath.Vec3{Y: 1})
	c.UpdateEmitterTransform(id, pvmath.Vec3{Z: 1}, pvmath.Vec3{})

	params := SourceParams{
		ObstructionGain: 1,
		WetGain:         0,
		RT60:            0.1,
		Lowpass:         20000,
		Direction:       pvmath.Vec2{X: 0, Y: 1},
	}
	numFrames := 64
	in := monoStereo(numFrames, 1)
	if ok := c.SendSource(id, params, in, numFrames); !ok {
		t.Fatal("expected SendSource to render")
	}
	if !c.ProcessOutput() {
		t.Fatal("expected ProcessOutput to report new data")
	}
	dry := c.DryBuffer()
	if dry == nil {
		t.Fatal("expected a dry buffer")
	}
	if got, want := dry[0], dry[1]; (got-want) > 1e-4 || (want-got) > 1e-4 {
		t.Fatalf("expected equal L/R at centre, got L=%v R=%v", got, want)
	}
}

func TestSendSourceRejectsZeroObstruction(t *testing.T) {
	c := newTestContext(t)
	id, _ := c.AddEmitter()
	params := SourceParams{
		ObstructionGain: 0,
		Lowpass:         1000,
		Direction:       pvmath.Vec2{X: 1},
	}
	in := monoStereo(16, 1)
	if c.SendSource(id, params, in, 16) {
		t.Fatal("expected zero obstruction gain to be rejected")
	}
}

func TestProcessOutputFalseBeforeAnySend(t *testing.T) {
	c := newTestContext(t)
	if c.ProcessOutput() {
		t.Fatal("expected no output before any SendSource call")
	}
}
