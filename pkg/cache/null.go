package cache

import (
	"context"
	"time"
)

// NullCache is the block cache of a --no-cache run, or of a machine without
// a user cache directory. Every lookup misses, so every block is composited,
// and nothing is recorded.
type NullCache struct{}

// NewNullCache returns a cache that disables block resumption.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

// Enabled reports whether c records blocks at all. Callers skip the key
// lookup and the cache events when it does not.
func Enabled(c Cache) bool {
	switch c.(type) {
	case nil, *NullCache:
		return false
	default:
		return true
	}
}
