package pipeline

import (
	"context"

	"github.com/jrusco/local-pdf/pkg/core"
)

// MergedName is the output filename for merged documents.
const MergedName = "merged.pdf"

// Merge concatenates the inputs in supplied order, or in the order given by
// the reorder index when present. Output page order equals the final file
// order with intra-file page order preserved.
func Merge(ctx context.Context, mods *Modules, files []core.File, opts core.Options, progress func(float64)) (*core.Result, error) {
	if err := core.ValidateReorder(opts.Reorder, len(files)); err != nil {
		return nil, err
	}

	order := opts.Reorder
	if order == nil {
		order = make([]int, len(files))
		for i := range order {
			order[i] = i
		}
	}

	docs := make([]Document, 0, len(files))
	for n, idx := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := mods.Structural.Load(ctx, files[idx].Data)
		if err != nil {
			return nil, &core.ProcessingError{Op: core.OpMerge, Err: err}
		}
		docs = append(docs, doc)
		progress(float64(n+1) / float64(len(order)+1))
	}

	out, err := mods.Structural.Merge(ctx, docs)
	if err != nil {
		return nil, &core.ProcessingError{Op: core.OpMerge, Err: err}
	}
	progress(1)

	return &core.Result{
		Files: []core.OutputFile{{Name: MergedName, Data: out}},
	}, nil
}
