// Package loader manages the lifecycle of heavy capability modules: the
// per-module load state machine, cache-first resolution with network
// fallback, integrity verification, and request coalescing.
package loader
