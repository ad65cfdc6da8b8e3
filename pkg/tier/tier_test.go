package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrusco/local-pdf/pkg/core"
)

func TestDecide_NonCompressHasNoTier(t *testing.T) {
	for _, op := range []core.Operation{core.OpMerge, core.OpRasterize, core.OpAssemble} {
		d := Decide(op, core.Options{Advanced: true}, core.StatusCached, true)
		assert.Equal(t, NotApplicable, d.Tier, "op %s", op)
	}
}

func TestDecide_AdvancedNotRequested(t *testing.T) {
	d := Decide(core.OpCompress, core.Options{}, core.StatusCached, true)
	assert.Equal(t, Lightweight, d.Tier)
	assert.Empty(t, d.Notice)
	assert.False(t, d.Resolve)
}

func TestDecide_AdvancedRequestedAndCached(t *testing.T) {
	d := Decide(core.OpCompress, core.Options{Advanced: true}, core.StatusCached, true)
	assert.Equal(t, Advanced, d.Tier)
	assert.False(t, d.Resolve)
	assert.Empty(t, d.Notice)
}

func TestDecide_AdvancedOfflineUncachedFallsBack(t *testing.T) {
	for _, status := range []core.LoadStatus{
		core.StatusNotFetched, core.StatusFetching, core.StatusStale, core.StatusFetchFailed,
	} {
		d := Decide(core.OpCompress, core.Options{Advanced: true}, status, false)
		assert.Equal(t, Lightweight, d.Tier, "status %s", status)
		assert.Equal(t, NoticeOfflineFallback, d.Notice)
		assert.False(t, d.Resolve, "offline must never wait on a module that cannot arrive")
	}
}

func TestDecide_AdvancedOnlineUncachedResolvesWithBoundedWait(t *testing.T) {
	d := Decide(core.OpCompress, core.Options{Advanced: true}, core.StatusNotFetched, true)
	assert.Equal(t, Advanced, d.Tier)
	assert.True(t, d.Resolve)
	assert.Equal(t, DefaultAdvancedWait, d.Wait)
}

func TestDecide_IsPure(t *testing.T) {
	opts := core.Options{Advanced: true}
	first := Decide(core.OpCompress, opts, core.StatusNotFetched, false)
	second := Decide(core.OpCompress, opts, core.StatusNotFetched, false)
	assert.Equal(t, first, second)
}
