package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/jrusco/local-pdf/pkg/core"
)

// A4 portrait in PDF points, the fixed page size for the fit policy.
const (
	FitPageWidth  = 595.28
	FitPageHeight = 841.89
)

// AssembledName is the output filename for assembled documents.
const AssembledName = "assembled.pdf"

// Assemble turns each input image into exactly one page. PageFit scales the
// image onto an A4 page preserving aspect ratio, centered; PageOriginal sizes
// the page to the image's pixel dimensions at the job's DPI mapping.
func Assemble(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error) {
	doc, err := mods.Structural.NewDocument(ctx)
	if err != nil {
		return nil, &core.ProcessingError{Op: core.OpAssemble, Err: err}
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		placement, err := placeImage(f.Data, opts)
		if err != nil {
			return nil, &core.ProcessingError{Op: core.OpAssemble, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		if err := mods.Structural.EmbedImage(ctx, doc, f.Data, placement); err != nil {
			return nil, &core.ProcessingError{Op: core.OpAssemble, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		progress(float64(i+1) / float64(len(files)+1))
	}

	out, err := mods.Structural.Save(ctx, doc)
	if err != nil {
		return nil, &core.ProcessingError{Op: core.OpAssemble, Err: err}
	}
	progress(1)

	return &core.Result{
		Files: []core.OutputFile{{Name: AssembledName, Data: out}},
	}, nil
}

// placeImage computes the page geometry for one image. This is design-level
// policy owned by the pipeline, not by the structural collaborator.
func placeImage(data []byte, opts core.Options) (Placement, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Placement{}, fmt.Errorf("%w: %v", core.ErrUnsupportedFormat, err)
	}
	w, h := float64(cfg.Width), float64(cfg.Height)

	if opts.PagePolicy == core.PageOriginal {
		dpi := float64(opts.DPI)
		if dpi <= 0 {
			dpi = 72
		}
		pw := w * 72 / dpi
		ph := h * 72 / dpi
		return Placement{PageWidth: pw, PageHeight: ph, Width: pw, Height: ph}, nil
	}

	// Fit: scale to the page preserving aspect ratio, centered.
	scale := FitPageWidth / w
	if s := FitPageHeight / h; s < scale {
		scale = s
	}
	iw, ih := w*scale, h*scale
	return Placement{
		PageWidth:  FitPageWidth,
		PageHeight: FitPageHeight,
		X:          (FitPageWidth - iw) / 2,
		Y:          (FitPageHeight - ih) / 2,
		Width:      iw,
		Height:     ih,
	}, nil
}
