// Package localpdf provides a client-side PDF processing toolkit: a durable
// cache and lazy loader for heavy capability modules, and a job orchestrator
// that runs merge, compress, rasterize, and assemble operations against them
// with progress, cancellation, and tiered compression fallback.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	db, _ := gorm.Open(sqlite.Open("modules.db"), &gorm.Config{})
//	store := localpdf.NewGormStore(db)
//	store.Migrate(ctx)
//
//	ldr := localpdf.NewLoader(store, localpdf.NewHTTPFetcher(30*time.Second), localpdf.DefaultModules())
//	ldr.SweepStale(ctx)
//
//	q := localpdf.NewQueue()
//	w := localpdf.NewWorker(q, ldr, binder)
//	go w.Start(ctx)
//
//	id, _ := q.Submit(localpdf.OpMerge, files, localpdf.NewOptions())
package localpdf

import (
	"gorm.io/gorm"

	"github.com/jrusco/local-pdf/pkg/cache"
	"github.com/jrusco/local-pdf/pkg/core"
	"github.com/jrusco/local-pdf/pkg/loader"
	"github.com/jrusco/local-pdf/pkg/pipeline"
	"github.com/jrusco/local-pdf/pkg/queue"
	"github.com/jrusco/local-pdf/pkg/raster"
	"github.com/jrusco/local-pdf/pkg/tier"
	"github.com/jrusco/local-pdf/pkg/worker"
)

// Type aliases re-exported from pkg/ packages.
type (
	// Job represents one processing request for its in-process lifetime.
	Job = core.Job

	// JobState represents the current state of a job.
	JobState = core.JobState

	// Operation is the kind of processing a job performs.
	Operation = core.Operation

	// File is one user-supplied input.
	File = core.File

	// Options holds the per-job option set.
	Options = core.Options

	// Result is a job's terminal output.
	Result = core.Result

	// ModuleDescriptor holds one capability module's metadata and status.
	ModuleDescriptor = core.ModuleDescriptor

	// ModuleID identifies a heavy capability module.
	ModuleID = core.ModuleID

	// LoadStatus represents the current state of a capability module.
	LoadStatus = core.LoadStatus

	// Event is the interface for all orchestrator events.
	Event = core.Event

	// Queue owns job submission, cancellation, progress, and results.
	Queue = queue.Queue

	// Worker executes queued jobs against loaded modules.
	Worker = worker.Worker

	// Loader drives each module's load state machine.
	Loader = loader.Loader

	// Handle is a ready-to-use reference to a loaded module bundle.
	Handle = loader.Handle

	// Store is the persistent module-bundle cache.
	Store = cache.Store

	// Binder instantiates collaborators from fetched module bundles.
	Binder = pipeline.Binder

	// Modules carries the resolved collaborator instances.
	Modules = pipeline.Modules

	// TierDecision is the compression tier choice for one job.
	TierDecision = tier.Decision
)

// Operations.
const (
	OpMerge     = core.OpMerge
	OpCompress  = core.OpCompress
	OpRasterize = core.OpRasterize
	OpAssemble  = core.OpAssemble
)

// Job states.
const (
	StateQueued           = core.StateQueued
	StateResolvingModules = core.StateResolvingModules
	StateRunning          = core.StateRunning
	StateSucceeded        = core.StateSucceeded
	StateFailed           = core.StateFailed
	StateCancelled        = core.StateCancelled
)

// Module ids.
const (
	ModuleStructural     = core.ModuleStructural
	ModuleRender         = core.ModuleRender
	ModuleNativeCompress = core.ModuleNativeCompress
)

// Errors re-exported for errors.Is checks at the call site.
var (
	ErrSizeLimitExceeded = core.ErrSizeLimitExceeded
	ErrUnsupportedFormat = core.ErrUnsupportedFormat
	ErrModuleUnavailable = core.ErrModuleUnavailable
	ErrIntegrityMismatch = core.ErrIntegrityMismatch
	ErrCancelled         = core.ErrCancelled
	ErrJobNotDone        = core.ErrJobNotDone
)

// NewOptions returns job options with defaults.
func NewOptions() Options { return core.NewOptions() }

// NewQueue creates an empty job queue.
func NewQueue() *Queue { return queue.New() }

// NewGormStore creates a GORM-backed module cache.
func NewGormStore(db *gorm.DB) *cache.GormStore { return cache.NewGormStore(db) }

// NewLoader creates a module loader over the store and fetcher.
func NewLoader(store cache.Store, fetcher loader.Fetcher, descriptors []ModuleDescriptor, opts ...loader.Option) *Loader {
	return loader.New(store, fetcher, descriptors, opts...)
}

// NewHTTPFetcher creates the default bundle fetcher.
var NewHTTPFetcher = loader.NewHTTPFetcher

// NewWorker creates a worker pool over the queue and loader.
func NewWorker(q *Queue, l *Loader, binder Binder, opts ...worker.Option) *Worker {
	return worker.New(q, l, binder, opts...)
}

// NewEncoder creates the built-in surface encoder.
func NewEncoder() *raster.Encoder { return raster.NewEncoder() }

// Module bundle metadata, stamped per release (e.g. via -ldflags) so the
// loader can verify what the deployment actually ships.
var (
	StructuralVersion = "0.0.0-dev"
	StructuralDigest  = ""
	StructuralURL     = "modules/structural.bundle"

	RenderVersion = "0.0.0-dev"
	RenderDigest  = ""
	RenderURL     = "modules/render.bundle"

	NativeCompressVersion = "0.0.0-dev"
	NativeCompressDigest  = ""
	NativeCompressURL     = "modules/native-compress.bundle"
)

// DefaultModules returns the static descriptor configuration for the three
// capability modules. Call once at process start; the loader owns the copy.
func DefaultModules() []ModuleDescriptor {
	return []ModuleDescriptor{
		{
			ID:         core.ModuleStructural,
			Version:    StructuralVersion,
			Digest:     StructuralDigest,
			URL:        StructuralURL,
			RequiredBy: []Operation{OpMerge, OpCompress, OpAssemble},
		},
		{
			ID:         core.ModuleRender,
			Version:    RenderVersion,
			Digest:     RenderDigest,
			URL:        RenderURL,
			RequiredBy: []Operation{OpRasterize},
		},
		{
			ID:         core.ModuleNativeCompress,
			Version:    NativeCompressVersion,
			Digest:     NativeCompressDigest,
			URL:        NativeCompressURL,
			RequiredBy: []Operation{OpCompress},
		},
	}
}
