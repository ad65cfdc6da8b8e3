package core

import (
	"time"
)

// ModuleID identifies a heavy capability module.
type ModuleID string

const (
	// ModuleStructural is the PDF parsing and structural-edit library.
	ModuleStructural ModuleID = "structural"
	// ModuleRender is the page-rendering engine.
	ModuleRender ModuleID = "render"
	// ModuleNativeCompress is the optional native stream-level compressor.
	ModuleNativeCompress ModuleID = "native-compress"
)

// LoadStatus represents the current state of a capability module.
type LoadStatus string

const (
	StatusNotFetched  LoadStatus = "not_fetched"
	StatusFetching    LoadStatus = "fetching"
	StatusCached      LoadStatus = "cached"
	StatusStale       LoadStatus = "stale"
	StatusFetchFailed LoadStatus = "fetch_failed"
)

// ModuleDescriptor holds static metadata for one capability module plus its
// mutable load status. Exactly one descriptor exists per module id; Status is
// the only mutable field and is written solely by the module loader.
type ModuleDescriptor struct {
	ID         ModuleID
	Version    string
	Size       int64  // declared bundle size in bytes
	Digest     string // hex-encoded sha256 of the bundle
	URL        string
	RequiredBy []Operation
	Status     LoadStatus
}

// RequiredByOp reports whether the module is required for the operation.
func (d *ModuleDescriptor) RequiredByOp(op Operation) bool {
	for _, o := range d.RequiredBy {
		if o == op {
			return true
		}
	}
	return false
}

// CacheEntry is one persisted module bundle. A row is retained only while its
// digest matches the current descriptor's expected digest; mismatched rows are
// evicted and never served.
type CacheEntry struct {
	ModuleID  ModuleID  `gorm:"primaryKey;size:64"`
	Version   string    `gorm:"size:64;not null"`
	Digest    string    `gorm:"size:128;not null"`
	Blob      []byte    `gorm:"type:bytes;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
