package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrusco/local-pdf/pkg/core"
)

func TestRasterize_OneImagePerPage(t *testing.T) {
	mods := &Modules{
		Renderer: &fakeRenderer{handle: &fakeRenderHandle{pageCount: 3}},
		Encoder:  fakeEncoder{},
	}
	files := []core.File{pdfFile("report.pdf", "P1", "P2", "P3")}

	res, err := Rasterize(context.Background(), mods, files, core.NewOptions(), discardProgress)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Empty(t, res.PageErrors)

	// 1-indexed page numbers embedded in output filenames.
	assert.Equal(t, "report-page-1.jpg", res.Files[0].Name)
	assert.Equal(t, "report-page-2.jpg", res.Files[1].Name)
	assert.Equal(t, "report-page-3.jpg", res.Files[2].Name)
}

func TestRasterize_PNGExtension(t *testing.T) {
	mods := &Modules{
		Renderer: &fakeRenderer{handle: &fakeRenderHandle{pageCount: 1}},
		Encoder:  fakeEncoder{},
	}
	opts := core.NewOptions()
	opts.Format = core.FormatPNG

	res, err := Rasterize(context.Background(), mods, []core.File{pdfFile("doc.pdf", "P1")}, opts, discardProgress)
	require.NoError(t, err)
	assert.Equal(t, "doc-page-1.png", res.Files[0].Name)
}

func TestRasterize_FailingPageDoesNotAbortRest(t *testing.T) {
	mods := &Modules{
		Renderer: &fakeRenderer{handle: &fakeRenderHandle{
			pageCount: 5,
			failPages: map[int]error{2: errBoom}, // page 3, 1-indexed
		}},
		Encoder: fakeEncoder{},
	}
	files := []core.File{pdfFile("doc.pdf", "P1", "P2", "P3", "P4", "P5")}

	res, err := Rasterize(context.Background(), mods, files, core.NewOptions(), discardProgress)
	require.NoError(t, err, "partial success is not a job failure")

	assert.Len(t, res.Files, 4)
	require.Len(t, res.PageErrors, 1)
	assert.Equal(t, 3, res.PageErrors[0].Page)
	assert.ErrorIs(t, res.PageErrors[0].Err, errBoom)
}

func TestRasterize_AllPagesFailedFailsJob(t *testing.T) {
	mods := &Modules{
		Renderer: &fakeRenderer{handle: &fakeRenderHandle{
			pageCount: 2,
			failPages: map[int]error{0: errBoom, 1: errBoom},
		}},
		Encoder: fakeEncoder{},
	}

	_, err := Rasterize(context.Background(), mods, []core.File{pdfFile("doc.pdf", "P1", "P2")}, core.NewOptions(), discardProgress)
	require.Error(t, err)

	var perr *core.ProcessingError
	assert.ErrorAs(t, err, &perr)
}

func TestRasterize_LoadFailureFailsJob(t *testing.T) {
	mods := &Modules{
		Renderer: &fakeRenderer{loadErr: errBoom},
		Encoder:  fakeEncoder{},
	}

	_, err := Rasterize(context.Background(), mods, []core.File{pdfFile("doc.pdf", "P1")}, core.NewOptions(), discardProgress)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}

func TestRasterize_CancelledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mods := &Modules{
		Renderer: &fakeRenderer{handle: &fakeRenderHandle{pageCount: 3}},
		Encoder:  fakeEncoder{},
	}

	_, err := Rasterize(ctx, mods, []core.File{pdfFile("doc.pdf", "P1", "P2", "P3")}, core.NewOptions(), discardProgress)
	assert.ErrorIs(t, err, context.Canceled)
}
