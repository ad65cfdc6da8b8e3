// Package tier decides between the lightweight and advanced compression
// strategies. The decision is a pure function of the requested operation,
// options, and loader state, so the fallback policy is testable on its own.
package tier

import (
	"time"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Tier is the compression strategy choice.
type Tier string

const (
	// NotApplicable marks operations that have no tier choice.
	NotApplicable Tier = "not_applicable"
	Lightweight   Tier = "lightweight"
	Advanced      Tier = "advanced"
)

// DefaultAdvancedWait bounds how long a job waits for the native compressor
// to arrive before falling back. Deliberately shorter than the loader's
// fetch timeout.
const DefaultAdvancedWait = 10 * time.Second

// NoticeOfflineFallback is surfaced when advanced compression was requested
// with no network path to the uncached native module.
const NoticeOfflineFallback = "advanced compression unavailable offline; a lightweight result was produced instead"

// NoticeTimeoutFallback is surfaced when the native module did not arrive
// within the advanced wait window.
const NoticeTimeoutFallback = "advanced compression module did not load in time; a lightweight result was produced instead"

// Decision is derived per Compress job and never stored.
type Decision struct {
	Tier Tier

	// Resolve asks the caller to request the native module, bounded by
	// Wait, before committing to the Advanced tier. On timeout or failure
	// the caller falls back to Lightweight with NoticeTimeoutFallback.
	Resolve bool
	Wait    time.Duration

	// Notice is a user-visible substitution message, empty when the
	// requested tier was honored.
	Notice string
}

// Decide picks the compression tier. Non-Compress operations have no tier;
// their module needs are resolved directly by the loader. The decision never
// asks the caller to block indefinitely on a module that cannot arrive.
func Decide(op core.Operation, opts core.Options, native core.LoadStatus, online bool) Decision {
	if op != core.OpCompress {
		return Decision{Tier: NotApplicable}
	}
	if !opts.Advanced {
		return Decision{Tier: Lightweight}
	}
	if native == core.StatusCached {
		return Decision{Tier: Advanced}
	}
	if !online {
		return Decision{Tier: Lightweight, Notice: NoticeOfflineFallback}
	}
	return Decision{Tier: Advanced, Resolve: true, Wait: DefaultAdvancedWait}
}
