package core

import (
	"errors"
	"fmt"
)

// Validation errors, returned synchronously before a job is queued.
var (
	ErrSizeLimitExceeded = errors.New("localpdf: total input size exceeds the hard cap")
	ErrUnsupportedFormat = errors.New("localpdf: unsupported input format")
	ErrUnknownOperation  = errors.New("localpdf: unknown operation")
	ErrNoInputFiles      = errors.New("localpdf: no input files supplied")
	ErrInvalidReorder    = errors.New("localpdf: reorder index is not a permutation of the input files")
)

// Module resolution and cache errors.
var (
	ErrModuleUnknown     = errors.New("localpdf: unknown module id")
	ErrModuleUnavailable = errors.New("localpdf: required module unavailable")
	ErrIntegrityMismatch = errors.New("localpdf: module bundle digest mismatch")
	ErrCacheMiss         = errors.New("localpdf: module not in cache")
	ErrCacheWriteFailed  = errors.New("localpdf: cache write failed")
)

// Job lifecycle errors.
var (
	ErrJobNotFound = errors.New("localpdf: job not found")
	ErrJobNotDone  = errors.New("localpdf: job has not reached a terminal state")
	ErrJobTerminal = errors.New("localpdf: job already in a terminal state")
	ErrCancelled   = errors.New("localpdf: job cancelled")
)

// ModuleLoadError reports a failed module fetch, wrapping the underlying
// network or integrity cause.
type ModuleLoadError struct {
	Module ModuleID
	Err    error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("localpdf: loading module %q: %v", e.Module, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// ProcessingError reports a pipeline-level failure, wrapping the cause from
// the delegated collaborator.
type ProcessingError struct {
	Op  Operation
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("localpdf: %s failed: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
