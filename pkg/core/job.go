package core

import (
	"time"
)

// Operation is the kind of processing a job performs. Each operation maps at
// compile time to its pipeline strategy and its required module set.
type Operation string

const (
	OpMerge     Operation = "merge"
	OpCompress  Operation = "compress"
	OpRasterize Operation = "rasterize"
	OpAssemble  Operation = "assemble"
)

// RequiredModules returns the capability modules the operation cannot run
// without. The native compressor is intentionally absent: it is optional and
// resolved through tier selection, never as a hard requirement.
func (op Operation) RequiredModules() []ModuleID {
	switch op {
	case OpMerge, OpCompress, OpAssemble:
		return []ModuleID{ModuleStructural}
	case OpRasterize:
		return []ModuleID{ModuleRender}
	default:
		return nil
	}
}

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	switch op {
	case OpMerge, OpCompress, OpRasterize, OpAssemble:
		return true
	}
	return false
}

// JobState represents the current state of a processing job.
type JobState string

const (
	StateQueued           JobState = "queued"
	StateResolvingModules JobState = "resolving_modules"
	StateRunning          JobState = "running"
	StateSucceeded        JobState = "succeeded"
	StateFailed           JobState = "failed"
	StateCancelled        JobState = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	}
	return false
}

// File is one user-supplied input: a name (used for format sniffing and
// output naming) and its bytes.
type File struct {
	Name string
	Data []byte
}

// QualityPreset selects the lightweight-compression image quality.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
	// QualityCustom uses the Slider value instead of a fixed constant.
	QualityCustom QualityPreset = "custom"
)

// PageSizePolicy controls how Assemble sizes pages around input images.
type PageSizePolicy string

const (
	// PageFit scales the image to the configured page size, preserving
	// aspect ratio and centering.
	PageFit PageSizePolicy = "fit"
	// PageOriginal sizes the page to the image's pixel dimensions at the
	// configured DPI mapping.
	PageOriginal PageSizePolicy = "original"
)

// ImageFormat selects the rasterize output encoding.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// Options holds the per-job option set. Zero values fall back to the
// defaults applied by NewOptions.
type Options struct {
	// Compression.
	Preset   QualityPreset
	Slider   int  // 0..100, used when Preset is QualityCustom
	Advanced bool // request the native stream-level compressor

	// Rasterize.
	DPI    int
	Format ImageFormat

	// Assemble.
	PagePolicy PageSizePolicy

	// Merge: explicit reorder of input files; nil keeps supplied order.
	// Must be a permutation of [0, len(files)).
	Reorder []int
}

// NewOptions returns Options with defaults.
func NewOptions() Options {
	return Options{
		Preset:     QualityMedium,
		DPI:        150,
		Format:     FormatJPEG,
		PagePolicy: PageFit,
	}
}

// Lightweight quality constants and the custom slider range.
const (
	QualityValueLow    = 40
	QualityValueMedium = 60
	QualityValueHigh   = 80

	SliderQualityMin = 30
	SliderQualityMax = 95
)

// Quality maps the preset (or slider) to an encoder quality in [1,100].
// The custom slider maps linearly onto [SliderQualityMin, SliderQualityMax].
func (o Options) Quality() int {
	switch o.Preset {
	case QualityLow:
		return QualityValueLow
	case QualityHigh:
		return QualityValueHigh
	case QualityCustom:
		s := o.Slider
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		return SliderQualityMin + s*(SliderQualityMax-SliderQualityMin)/100
	default:
		return QualityValueMedium
	}
}

// PageError records a single page that failed during Rasterize. Page numbers
// are 1-indexed to match output filenames.
type PageError struct {
	Page int
	Err  error
}

// OutputFile is one produced artifact.
type OutputFile struct {
	Name string
	Data []byte
}

// Result is a job's terminal output. Merge, Compress, and Assemble produce a
// single file; Rasterize produces one file per successfully rendered page
// plus PageErrors for the rest.
type Result struct {
	Files      []OutputFile
	PageErrors []PageError
	// Notices carries user-visible substitution messages, e.g. when a
	// lighter-weight compression tier replaced the requested one.
	Notices []string
}

// Job represents one processing request for its in-process lifetime. It is
// owned exclusively by the orchestrator; pipeline strategies never mutate it.
type Job struct {
	ID      string
	Op      Operation
	Files   []File
	Options Options

	State    JobState
	Progress float64 // in [0,1], monotonic while running
	Result   *Result
	Err      error

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// InputBytes returns the total size of the job's input files.
func (j *Job) InputBytes() int64 {
	var n int64
	for _, f := range j.Files {
		n += int64(len(f.Data))
	}
	return n
}
