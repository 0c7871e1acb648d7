// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout passes, interaction gestures,
// and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, nodes, relationships)
//	// ... run simulation ...
//	observability.Layout().OnLayoutComplete(ctx, nodes, ticks, partial, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a simulation run.
	OnLayoutStart(ctx context.Context, nodes, relationships int)

	// OnLayoutComplete records the end of a simulation run. partial is set
	// when the run was abandoned before stabilization.
	OnLayoutComplete(ctx context.Context, nodes, ticks int, partial bool, duration time.Duration)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives semantic gesture events from the interaction
// manager.
type InteractionHooks interface {
	// OnGesture records a recognized gesture by kind ("select", "expand",
	// "pan", "zoom", "context").
	OnGesture(kind string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int, int)                         {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, int, bool, time.Duration) {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnGesture(string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks      LayoutHooks      = NoopLayoutHooks{}
	interactionHooks InteractionHooks = NoopInteractionHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	hooksMu          sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
// This should be called once at application startup.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	interactionHooks = NoopInteractionHooks{}
	cacheHooks = NoopCacheHooks{}
}
