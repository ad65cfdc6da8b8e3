package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrusco/local-pdf/pkg/core"
)

func TestCompressLightweight_StripsAndReencodes(t *testing.T) {
	structural := &fakeStructural{}
	mods := &Modules{Structural: structural}
	files := []core.File{pdfFile("doc.pdf", "P1", "P2")}
	opts := core.NewOptions()
	opts.Preset = core.QualityLow

	res, err := CompressLightweight(context.Background(), mods, files, opts, discardProgress)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "doc-compressed.pdf", res.Files[0].Name)
	assert.Empty(t, res.Notices)
}

func TestCompressLightweight_QualityFromPreset(t *testing.T) {
	structural := &fakeStructural{}
	mods := &Modules{Structural: structural}
	files := []core.File{pdfFile("doc.pdf", "P1")}

	opts := core.NewOptions()
	opts.Preset = core.QualityHigh
	_, err := CompressLightweight(context.Background(), mods, files, opts, discardProgress)
	require.NoError(t, err)

	assert.Equal(t, core.QualityValueHigh, structural.lastQuality)
	assert.True(t, structural.lastStripped)
}

func TestCompressLightweight_OneOutputPerInput(t *testing.T) {
	mods := &Modules{Structural: &fakeStructural{}}
	files := []core.File{pdfFile("a.pdf", "A1"), pdfFile("b.pdf", "B1")}

	res, err := CompressLightweight(context.Background(), mods, files, core.NewOptions(), discardProgress)
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "a-compressed.pdf", res.Files[0].Name)
	assert.Equal(t, "b-compressed.pdf", res.Files[1].Name)
}

func TestCompressAdvanced_DelegatesToNativeModule(t *testing.T) {
	mods := &Modules{
		Structural: &fakeStructural{},
		Compressor: &fakeCompressor{},
	}
	files := []core.File{pdfFile("doc.pdf", "P1", "P2", "P3", "P4")}

	res, err := CompressAdvanced(context.Background(), mods, files, core.NewOptions(), discardProgress)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Less(t, len(res.Files[0].Data), len(files[0].Data), "native tier shrinks the stream")
	assert.Empty(t, res.Notices)
}

func TestCompressAdvanced_NativeFailureFallsBackToLightweight(t *testing.T) {
	structural := &fakeStructural{}
	mods := &Modules{
		Structural: structural,
		Compressor: &fakeCompressor{err: errBoom},
	}
	files := []core.File{pdfFile("doc.pdf", "P1")}

	res, err := CompressAdvanced(context.Background(), mods, files, core.NewOptions(), discardProgress)
	require.NoError(t, err, "native failure must degrade, not fail the job")
	require.Len(t, res.Files, 1)
	assert.True(t, structural.lastStripped, "fallback produces the lightweight result")
	require.Len(t, res.Notices, 1)
	assert.Equal(t, NoticeNativeFallback, res.Notices[0])
}

func TestCompress_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mods := &Modules{Structural: &fakeStructural{}}
	files := []core.File{pdfFile("doc.pdf", "P1")}

	_, err := CompressLightweight(ctx, mods, files, core.NewOptions(), discardProgress)
	assert.ErrorIs(t, err, context.Canceled)
}
