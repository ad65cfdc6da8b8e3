// Package pipeline holds the per-operation processing strategies. Strategies
// are stateless functions over loaded module handles and validated inputs;
// the actual byte manipulation is delegated to external collaborators and
// only the design-level policy (ordering, naming, fallback, page sizing)
// lives here.
package pipeline

import (
	"context"
	"image"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Document is an opaque handle produced by the structural module.
type Document any

// Placement positions one image on one page, in PDF points.
type Placement struct {
	PageWidth  float64
	PageHeight float64
	X          float64
	Y          float64
	Width      float64
	Height     float64
}

// Structural is the PDF parsing and structural-edit collaborator.
type Structural interface {
	Load(ctx context.Context, data []byte) (Document, error)
	NewDocument(ctx context.Context) (Document, error)
	Merge(ctx context.Context, docs []Document) ([]byte, error)
	EmbedImage(ctx context.Context, doc Document, imageData []byte, placement Placement) error
	StripMetadata(ctx context.Context, doc Document) error
	ReencodeImages(ctx context.Context, doc Document, quality int) error
	Save(ctx context.Context, doc Document) ([]byte, error)
}

// Renderer is the page-rendering collaborator, backed by a worker context in
// the embedding environment.
type Renderer interface {
	LoadDocument(ctx context.Context, data []byte) (RenderHandle, error)
}

// RenderHandle is an open document on the rendering side.
type RenderHandle interface {
	PageCount() int
	// RenderPage rasterizes the 0-indexed page at the given DPI.
	RenderPage(ctx context.Context, pageIndex int, dpi int) (image.Image, error)
}

// NativeCompressor is the optional stream-level optimizer. It fails
// explicitly rather than hanging on malformed input.
type NativeCompressor interface {
	Optimize(ctx context.Context, data []byte) ([]byte, error)
}

// SurfaceEncoder is the canvas-equivalent raster API.
type SurfaceEncoder interface {
	Encode(surface image.Image, format core.ImageFormat, quality int) ([]byte, error)
}

// Modules carries the resolved collaborator instances a strategy runs
// against. Fields irrelevant to the operation are nil.
type Modules struct {
	Structural Structural
	Renderer   Renderer
	Compressor NativeCompressor
	Encoder    SurfaceEncoder
}

// Binder instantiates collaborators from fetched module bundles. It is the
// seam between the loader's byte-level handles and the typed interfaces
// above; real deployments bind WASM or native instances, tests bind fakes.
type Binder interface {
	Bind(ctx context.Context, bundles map[core.ModuleID][]byte) (*Modules, error)
}

// BinderFunc adapts a function to the Binder interface.
type BinderFunc func(ctx context.Context, bundles map[core.ModuleID][]byte) (*Modules, error)

// Bind calls f.
func (f BinderFunc) Bind(ctx context.Context, bundles map[core.ModuleID][]byte) (*Modules, error) {
	return f(ctx, bundles)
}

// Strategy is one pipeline operation. progress reports strategy-local
// completion in [0,1]; the orchestrator scales it into job progress.
// Strategies return results and never mutate job state.
type Strategy func(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error)
