// Package observability provides hooks for metrics, tracing, and logging.
//
// The simulation core and the snapshot stores report what they do through
// small hook interfaces instead of depending on a metrics backend. The
// default implementations do nothing; an application registers its own at
// startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&myHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnSelect(node.ID())
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from a surface.
//
// Hooks are called synchronously on the goroutine driving the surface and
// must not call back into it.
type SimulationHooks interface {
	// OnConfigure records a field/boundary derivation for a new size.
	OnConfigure(width, height, radius, strength float64)

	// OnNodeAdded records a node entering the surface at index idx.
	OnNodeAdded(id string, idx int)

	// OnSelect and OnDeselect record selection transitions.
	OnSelect(id string)
	OnDeselect(id string)

	// OnDrag records a drag impulse applied to count nodes.
	OnDrag(dx, dy float64, count int)

	// OnStep records one integrator step.
	OnStep(nodes int, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot stores.
type StoreHooks interface {
	// OnSave records a snapshot write of size bytes.
	OnSave(ctx context.Context, backend, name string, size int, err error)

	// OnLoad records a snapshot read; found is false for a miss.
	OnLoad(ctx context.Context, backend, name string, found bool, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnConfigure(float64, float64, float64, float64) {}
func (NoopSimulationHooks) OnNodeAdded(string, int)                        {}
func (NoopSimulationHooks) OnSelect(string)                                {}
func (NoopSimulationHooks) OnDeselect(string)                              {}
func (NoopSimulationHooks) OnDrag(float64, float64, int)                   {}
func (NoopSimulationHooks) OnStep(int, time.Duration)                      {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, error)  {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, bool, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
	hooksMu         sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup before any surface is created.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	storeHooks = NoopStoreHooks{}
}
