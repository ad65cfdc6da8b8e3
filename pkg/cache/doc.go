// Package cache provides the persistent module-bundle cache: a byte-blob
// store keyed by module id with digest-based staleness eviction.
package cache
