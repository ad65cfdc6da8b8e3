package cache

import (
	"context"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Store defines the persistence layer for module bundles. Implementations
// must never reach the network; side effects are confined to local storage.
type Store interface {
	// Has reports whether a non-evicted entry with a matching digest exists.
	Has(ctx context.Context, id core.ModuleID, expectedDigest string) (bool, error)

	// Fetch returns the stored entry, or core.ErrCacheMiss.
	Fetch(ctx context.Context, id core.ModuleID) (*core.CacheEntry, error)

	// Put atomically replaces any prior entry for the id. On storage
	// failure it returns an error wrapping core.ErrCacheWriteFailed and
	// leaves the prior entry intact.
	Put(ctx context.Context, id core.ModuleID, blob []byte, digest, version string) error

	// EvictStale removes entries whose digest no longer matches the
	// expected digest for their id, and entries for unknown ids. Returns
	// the number of evicted entries.
	EvictStale(ctx context.Context, expected map[core.ModuleID]string) (int, error)
}
