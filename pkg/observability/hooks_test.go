package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSimulationHooks{}
	s.OnConfigure(300, 600, 2449.5, 2400)
	s.OnNodeAdded("a", 0)
	s.OnSelect("a")
	s.OnDeselect("a")
	s.OnDrag(1, -1, 3)
	s.OnStep(3, time.Millisecond)

	st := NoopStoreHooks{}
	st.OnSave(ctx, "file", "cloud", 128, nil)
	st.OnLoad(ctx, "file", "cloud", false, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Reset() should restore NoopSimulationHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testSimulationHooks{}
	SetSimulationHooks(custom)
	SetSimulationHooks(nil)

	if Simulation() != custom {
		t.Error("SetSimulationHooks(nil) should keep the previous hooks")
	}
}

type testSimulationHooks struct{ NoopSimulationHooks }

type testStoreHooks struct{ NoopStoreHooks }
