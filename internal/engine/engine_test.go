package engine

import (
	"testing"
	"time"

	"github.com/planeverb/planeverb-go/internal/fdtd"
	"github.com/planeverb/planeverb-go/internal/pvmath"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GridSizeInMeters = pvmath.Vec2{X: 10, Y: 10}
	cfg.GridResolution = fdtd.LowResolution
	return cfg
}

func TestNewEngineInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.GridSizeInMeters = pvmath.Vec2{}
	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected error for zero grid size")
	}
}

func TestEngineLifecycle(t *testing.T) {
	e, err := NewEngine(testConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	id := e.AddEmitter(pvmath.Vec3{X: 1, Y: 0, Z: 0})
	e.SetListenerPosition(pvmath.Vec3{})

	// Give the worker a moment to run at least one iteration.
	time.Sleep(50 * time.Millisecond)

	if _, ok := e.GetOutput(id); !ok {
		t.Fatal("expected a result once the worker has iterated")
	}

	if _, ok := e.GetOutput(id + 1000); ok {
		t.Fatal("expected unknown emitter id to report no data")
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestGetOutputUnknownEmitterIsSentinel(t *testing.T) {
	e, err := NewEngine(testConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	res, ok := e.GetOutput(999)
	if ok {
		t.Fatal("expected unknown emitter to report no data")
	}
	if IsOutputValid(res) {
		t.Fatal("expected sentinel result to be invalid")
	}
}
