package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jrusco/local-pdf/pkg/cache"
	"github.com/jrusco/local-pdf/pkg/core"
)

// DefaultFetchTimeout bounds a single module download, retries included.
const DefaultFetchTimeout = 30 * time.Second

// Handle is a ready-to-use reference to a loaded module bundle.
type Handle struct {
	ID      core.ModuleID
	Version string
	Blob    []byte
}

// Loader owns the module descriptor registry and drives each module's load
// state machine. Status is written only here.
type Loader struct {
	mu          sync.RWMutex
	descriptors map[core.ModuleID]*core.ModuleDescriptor
	eventSubs   []chan core.Event

	store   cache.Store
	fetcher Fetcher
	group   singleflight.Group
	logger  *slog.Logger

	fetchTimeout time.Duration
	retry        RetryConfig

	onlineMu sync.RWMutex
	online   bool
}

// Option configures a Loader.
type Option interface {
	ApplyLoader(*Loader)
}

type optionFunc func(*Loader)

func (f optionFunc) ApplyLoader(l *Loader) { f(l) }

// FetchTimeout bounds a module download, retries included.
func FetchTimeout(d time.Duration) Option {
	return optionFunc(func(l *Loader) { l.fetchTimeout = d })
}

// Retry sets the fetch retry configuration.
func Retry(cfg RetryConfig) Option {
	return optionFunc(func(l *Loader) { l.retry = cfg })
}

// Logger sets the structured logger.
func Logger(logger *slog.Logger) Option {
	return optionFunc(func(l *Loader) { l.logger = logger })
}

// New creates a Loader owning a copy of the given descriptors. Descriptor
// status starts at NotFetched regardless of the input.
func New(store cache.Store, fetcher Fetcher, descriptors []core.ModuleDescriptor, opts ...Option) *Loader {
	l := &Loader{
		descriptors:  make(map[core.ModuleID]*core.ModuleDescriptor, len(descriptors)),
		store:        store,
		fetcher:      fetcher,
		logger:       slog.Default(),
		fetchTimeout: DefaultFetchTimeout,
		retry:        DefaultRetryConfig(),
		online:       true,
	}
	for _, opt := range opts {
		opt.ApplyLoader(l)
	}
	for _, d := range descriptors {
		d := d
		d.Status = core.StatusNotFetched
		l.descriptors[d.ID] = &d
	}
	return l
}

// Request resolves the module to a loaded handle, driving the state machine:
// cache first (offline-safe), then network with integrity verification.
// Concurrent requests for the same module id coalesce into a single fetch.
// A Cached module returns immediately without I/O beyond the cache read.
func (l *Loader) Request(ctx context.Context, id core.ModuleID) (*Handle, error) {
	l.mu.RLock()
	d, ok := l.descriptors[id]
	var version string
	if ok {
		version = d.Version
	}
	l.mu.RUnlock()
	if !ok {
		return nil, core.ErrModuleUnknown
	}

	key := string(id) + "@" + version
	ch := l.group.DoChan(key, func() (any, error) {
		// The resolve runs on its own deadline so one caller's
		// cancellation cannot fail the coalesced fetch for the rest.
		rctx, cancel := context.WithTimeout(context.Background(), l.fetchTimeout)
		defer cancel()
		return l.resolve(rctx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Handle), nil
	}
}

func (l *Loader) resolve(ctx context.Context, id core.ModuleID) (*Handle, error) {
	l.mu.RLock()
	d := l.descriptors[id]
	version, digest, url := d.Version, d.Digest, d.URL
	status := d.Status
	l.mu.RUnlock()

	// Idempotent fast path: already loaded this version.
	if status == core.StatusCached {
		entry, err := l.store.Fetch(ctx, id)
		if err == nil && entry.Digest == digest {
			return &Handle{ID: id, Version: entry.Version, Blob: entry.Blob}, nil
		}
		// The store lost or corrupted the entry; fall through and refetch.
		l.logger.Warn("cached module missing from store, refetching", "module", id, "error", err)
	}

	l.setStatus(id, core.StatusFetching)

	// Cache-first: a valid stored entry never touches the network.
	ok, err := l.store.Has(ctx, id, digest)
	if err != nil {
		// Degrade to treat-as-not-fetched.
		l.logger.Warn("cache lookup failed", "module", id, "error", err)
	}
	if ok {
		entry, err := l.store.Fetch(ctx, id)
		if err == nil && entry.Digest == digest {
			l.setStatus(id, core.StatusCached)
			return &Handle{ID: id, Version: entry.Version, Blob: entry.Blob}, nil
		}
	}

	var blob []byte
	err = retryWithBackoff(ctx, l.retry, func() error {
		var fetchErr error
		blob, fetchErr = l.fetcher.Fetch(ctx, url)
		return fetchErr
	})
	if err != nil {
		l.setOnline(false)
		l.setStatus(id, core.StatusFetchFailed)
		return nil, &core.ModuleLoadError{Module: id, Err: err}
	}
	l.setOnline(true)

	if got := digestOf(blob); got != digest {
		// Integrity violation: discard the blob, never cache it.
		l.setStatus(id, core.StatusFetchFailed)
		return nil, &core.ModuleLoadError{
			Module: id,
			Err:    fmt.Errorf("%w: expected %s, got %s", core.ErrIntegrityMismatch, digest, got),
		}
	}

	if err := l.store.Put(ctx, id, blob, digest, version); err != nil {
		// Non-fatal: serve the blob this session, refetch next time.
		l.logger.Warn("module cache write failed", "module", id, "error", err)
	}

	l.setStatus(id, core.StatusCached)
	return &Handle{ID: id, Version: version, Blob: blob}, nil
}

// Invalidate bumps a descriptor to a new version and digest. A Cached module
// transitions to Stale and its store entry is evicted on the next sweep.
func (l *Loader) Invalidate(id core.ModuleID, version, digest, url string) error {
	l.mu.Lock()
	d, ok := l.descriptors[id]
	if !ok {
		l.mu.Unlock()
		return core.ErrModuleUnknown
	}
	d.Version = version
	d.Digest = digest
	if url != "" {
		d.URL = url
	}
	wasCached := d.Status == core.StatusCached
	l.mu.Unlock()

	if wasCached {
		l.setStatus(id, core.StatusStale)
	}
	return nil
}

// SweepStale evicts store entries that no longer match current descriptors.
// Run at startup and after any descriptor version bump. Failure degrades to
// treat-as-not-fetched and is reported, never fatal.
func (l *Loader) SweepStale(ctx context.Context) int {
	n, err := l.store.EvictStale(ctx, l.ExpectedDigests())
	if err != nil {
		l.logger.Warn("stale sweep failed", "error", err)
	}
	return n
}

// Status returns the current load status of the module.
func (l *Loader) Status(id core.ModuleID) (core.LoadStatus, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.descriptors[id]
	if !ok {
		return "", core.ErrModuleUnknown
	}
	return d.Status, nil
}

// Statuses returns a snapshot of every module's load status.
func (l *Loader) Statuses() map[core.ModuleID]core.LoadStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[core.ModuleID]core.LoadStatus, len(l.descriptors))
	for id, d := range l.descriptors {
		out[id] = d.Status
	}
	return out
}

// ExpectedDigests returns the current id → digest mapping, the eviction
// reference for the cache store.
func (l *Loader) ExpectedDigests() map[core.ModuleID]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[core.ModuleID]string, len(l.descriptors))
	for id, d := range l.descriptors {
		out[id] = d.Digest
	}
	return out
}

// Online reports whether the last network attempt succeeded. It starts true
// and can be forced by the embedding environment via SetOnline.
func (l *Loader) Online() bool {
	l.onlineMu.RLock()
	defer l.onlineMu.RUnlock()
	return l.online
}

// SetOnline forces the connectivity flag, e.g. from browser online/offline
// signals in the embedding layer.
func (l *Loader) SetOnline(online bool) {
	l.setOnline(online)
}

func (l *Loader) setOnline(online bool) {
	l.onlineMu.Lock()
	l.online = online
	l.onlineMu.Unlock()
}

// Subscribe returns a channel of ModuleStatusChanged events. The caller must
// call Unsubscribe when done.
func (l *Loader) Subscribe() <-chan core.Event {
	ch := make(chan core.Event, 64)
	l.mu.Lock()
	l.eventSubs = append(l.eventSubs, ch)
	l.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Subscribe.
func (l *Loader) Unsubscribe(ch <-chan core.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, sub := range l.eventSubs {
		if sub == ch {
			l.eventSubs = append(l.eventSubs[:i], l.eventSubs[i+1:]...)
			return
		}
	}
}

func (l *Loader) setStatus(id core.ModuleID, to core.LoadStatus) {
	l.mu.Lock()
	d := l.descriptors[id]
	from := d.Status
	if from == to {
		l.mu.Unlock()
		return
	}
	d.Status = to
	subs := make([]chan core.Event, len(l.eventSubs))
	copy(subs, l.eventSubs)
	l.mu.Unlock()

	e := &core.ModuleStatusChanged{Module: id, From: from, To: to, Timestamp: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- e:
		default:
			// Drop if full - this prevents blocking on slow consumers
		}
	}
}

func digestOf(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// Digest computes the hex sha256 of a bundle, exported so static module
// configuration and tests derive digests the same way the loader verifies
// them.
func Digest(blob []byte) string {
	return digestOf(blob)
}
