package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jrusco/local-pdf/pkg/core"
)

// NoticeNativeFallback is surfaced when the native compressor reported an
// internal failure and the lightweight result was kept instead.
const NoticeNativeFallback = "native compression failed; a lightweight result was produced instead"

// CompressLightweight strips document metadata and re-encodes embedded raster
// images at the quality derived from the requested preset. One output per
// input file.
func CompressLightweight(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error) {
	quality := opts.Quality()
	out := make([]core.OutputFile, 0, len(files))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := compressOne(ctx, mods.Structural, f.Data, quality)
		if err != nil {
			return nil, &core.ProcessingError{Op: core.OpCompress, Err: fmt.Errorf("%s: %w", f.Name, err)}
		}
		out = append(out, core.OutputFile{Name: compressedName(f.Name), Data: data})
		progress(float64(i+1) / float64(len(files)))
	}

	return &core.Result{Files: out}, nil
}

// CompressAdvanced delegates stream-level optimization to the native module.
// A per-file internal failure falls back to the lightweight result for that
// file with a user-visible notice, instead of failing the job.
func CompressAdvanced(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error) {
	quality := opts.Quality()
	out := make([]core.OutputFile, 0, len(files))
	var notices []string

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := mods.Compressor.Optimize(ctx, f.Data)
		if err != nil {
			slog.Default().Warn("native compression failed, using lightweight result",
				"file", f.Name, "error", err)
			data, err = compressOne(ctx, mods.Structural, f.Data, quality)
			if err != nil {
				return nil, &core.ProcessingError{Op: core.OpCompress, Err: fmt.Errorf("%s: %w", f.Name, err)}
			}
			notices = append(notices, NoticeNativeFallback)
		}
		out = append(out, core.OutputFile{Name: compressedName(f.Name), Data: data})
		progress(float64(i+1) / float64(len(files)))
	}

	return &core.Result{Files: out, Notices: notices}, nil
}

func compressOne(ctx context.Context, s Structural, data []byte, quality int) ([]byte, error) {
	doc, err := s.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := s.StripMetadata(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.ReencodeImages(ctx, doc, quality); err != nil {
		return nil, err
	}
	return s.Save(ctx, doc)
}

func compressedName(name string) string {
	stem := strings.TrimSuffix(name, ".pdf")
	return stem + "-compressed.pdf"
}
