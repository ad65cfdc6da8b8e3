package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Rasterize renders one output image per page, 1-indexed in the output
// filename. A page that fails to render is recorded individually without
// aborting the remaining pages; the job only fails when nothing rendered.
func Rasterize(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error) {
	var (
		out      []core.OutputFile
		pageErrs []core.PageError
		total    int
	)

	handles := make([]RenderHandle, 0, len(files))
	for _, f := range files {
		h, err := mods.Renderer.LoadDocument(ctx, f.Data)
		if err != nil {
			return nil, &core.ProcessingError{Op: core.OpRasterize, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		handles = append(handles, h)
		total += h.PageCount()
	}
	if total == 0 {
		return nil, &core.ProcessingError{Op: core.OpRasterize, Err: fmt.Errorf("no pages to render")}
	}

	done := 0
	for fi, h := range handles {
		stem := fileStem(files[fi].Name)
		for p := 0; p < h.PageCount(); p++ {
			// Each page is a step boundary for cancellation.
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			page := p + 1
			surface, err := h.RenderPage(ctx, p, opts.DPI)
			if err == nil {
				var data []byte
				data, err = mods.Encoder.Encode(surface, opts.Format, opts.Quality())
				if err == nil {
					out = append(out, core.OutputFile{
						Name: fmt.Sprintf("%s-page-%d.%s", stem, page, formatExt(opts.Format)),
						Data: data,
					})
				}
			}
			if err != nil {
				pageErrs = append(pageErrs, core.PageError{Page: page, Err: err})
			}
			done++
			progress(float64(done) / float64(total))
		}
	}

	if len(out) == 0 {
		return nil, &core.ProcessingError{Op: core.OpRasterize, Err: fmt.Errorf("all %d pages failed to render", total)}
	}
	return &core.Result{Files: out, PageErrors: pageErrs}, nil
}

func fileStem(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

func formatExt(f core.ImageFormat) string {
	if f == core.FormatPNG {
		return "png"
	}
	return "jpg"
}
