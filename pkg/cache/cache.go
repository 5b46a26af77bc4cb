// Package cache remembers which compositor blocks already produced their
// output, so an interrupted run can be resumed without re-compositing
// super-rows that did not change.
//
// A block's key is derived from everything that determines its pixels: the
// ordered image list, the across count, the destination and the compositor
// backend. Reordering or adding a single file changes the key.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// BlockKeyOpts are the inputs that determine a compositor block's output.
type BlockKeyOpts struct {
	Backend string
	Images  []string
	Across  int
	Output  string
}

// BlockKey returns the cache key for a compositor block.
func BlockKey(opts BlockKeyOpts) string {
	return hashKey("block", opts.Backend, opts.Output, opts.Across, opts.Images)
}
