// Package observability provides hooks for metrics, progress reporting and
// tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about collage runs, compositor invocations
// and the block cache.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCompositorHooks(&progressHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Compositor().OnBlockStart(ctx, block, images)
//	// ... composite ...
//	observability.Compositor().OnBlockComplete(ctx, block, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the collage pipeline.
type PipelineHooks interface {
	// Catalog events
	OnCatalogRead(ctx context.Context, path string, groups, snapshots int, duration time.Duration, err error)

	// Matching events
	OnMatchComplete(ctx context.Context, files, matched, orphans int, duration time.Duration)

	// Layout events
	OnLayoutComplete(ctx context.Context, placed, blocks int, duration time.Duration)
}

// =============================================================================
// Compositor Hooks
// =============================================================================

// CompositorHooks receives events from block compositor invocations.
type CompositorHooks interface {
	// OnBlockStart records the launch of one compositor invocation.
	OnBlockStart(ctx context.Context, block, images int)

	// OnBlockComplete records the outcome of one compositor invocation.
	OnBlockComplete(ctx context.Context, block int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the block cache.
type CacheHooks interface {
	// OnCacheHit records a block skipped because its output is current.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a block that has to be composited.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCatalogRead(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnMatchComplete(context.Context, int, int, int, time.Duration)         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, time.Duration)            {}

// NoopCompositorHooks is a no-op implementation of CompositorHooks.
type NoopCompositorHooks struct{}

func (NoopCompositorHooks) OnBlockStart(context.Context, int, int)                      {}
func (NoopCompositorHooks) OnBlockComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks   PipelineHooks   = NoopPipelineHooks{}
	compositorHooks CompositorHooks = NoopCompositorHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any run.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCompositorHooks registers custom compositor hooks.
// This should be called once at application startup before any run.
func SetCompositorHooks(h CompositorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		compositorHooks = h
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

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Compositor returns the registered compositor hooks.
func Compositor() CompositorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return compositorHooks
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
	pipelineHooks = NoopPipelineHooks{}
	compositorHooks = NoopCompositorHooks{}
	cacheHooks = NoopCacheHooks{}
}
