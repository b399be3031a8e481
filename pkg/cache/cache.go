// Package cache stores rendered artifacts keyed by the snapshot they were
// drawn from and the options used to draw them.
//
// Rendering a contact graph runs Graphviz, which dominates the cost of the
// render command; a snapshot rendered twice with the same options is served
// from the cache instead.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.ArtifactKey(cache.SnapshotHash(snap), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
