package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jrusco/local-pdf/pkg/core"
	"github.com/jrusco/local-pdf/pkg/loader"
	"github.com/jrusco/local-pdf/pkg/pipeline"
	"github.com/jrusco/local-pdf/pkg/queue"
	"github.com/jrusco/local-pdf/pkg/raster"
	"github.com/jrusco/local-pdf/pkg/tier"
)

// resolveShare is the slice of job progress spent on module resolution; the
// pipeline strategy fills the rest.
const resolveShare = 0.1

// Worker pulls jobs from the queue in submission order and executes them as
// an ordered list of steps, observing cancellation at each step boundary.
type Worker struct {
	queue  *queue.Queue
	loader *loader.Loader
	binder pipeline.Binder
	config Config
	wg     sync.WaitGroup
}

// New creates a worker over the queue, loader, and module binder.
func New(q *queue.Queue, l *loader.Loader, binder pipeline.Binder, opts ...Option) *Worker {
	config := defaultConfig()
	for _, opt := range opts {
		opt.ApplyWorker(&config)
	}
	return &Worker{
		queue:  q,
		loader: l,
		binder: binder,
		config: config,
	}
}

// Start begins processing jobs. Blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	jobsChan := make(chan *core.Job, w.config.PoolSize)

	for i := 0; i < w.config.PoolSize; i++ {
		w.wg.Add(1)
		go w.processLoop(ctx, jobsChan)
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(jobsChan)
			w.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			for {
				job := w.queue.Dequeue()
				if job == nil {
					break
				}
				select {
				case jobsChan <- job:
				case <-ctx.Done():
					// Never started; leave it for Result to report Cancelled.
					w.queue.MarkCancelled(job.ID)
				}
			}
		}
	}
}

func (w *Worker) processLoop(ctx context.Context, jobs <-chan *core.Job) {
	defer w.wg.Done()
	for job := range jobs {
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *core.Job) {
	id := job.ID
	w.queue.MarkResolving(id)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.queue.RegisterCancel(id, cancel)
	defer w.queue.UnregisterCancel(id)

	// Step 1: validate inputs for the operation.
	if err := core.ValidateFilesFor(job.Op, job.Files); err != nil {
		w.queue.Fail(id, err)
		return
	}
	if w.cancelled(jobCtx, id) {
		w.queue.MarkCancelled(id)
		return
	}

	// Step 2: resolve required modules, tier-aware for Compress.
	bundles, strategy, notices, err := w.resolve(jobCtx, job)
	if err != nil {
		if w.cancelled(jobCtx, id) {
			w.queue.MarkCancelled(id)
			return
		}
		w.queue.Fail(id, err)
		return
	}
	w.queue.SetProgress(id, resolveShare)
	if w.cancelled(jobCtx, id) {
		w.queue.MarkCancelled(id)
		return
	}

	mods, err := w.binder.Bind(jobCtx, bundles)
	if err != nil {
		w.queue.Fail(id, &core.ProcessingError{Op: job.Op, Err: err})
		return
	}
	if mods.Encoder == nil {
		mods.Encoder = raster.NewEncoder()
	}

	// Step 3: run the pipeline strategy.
	w.queue.MarkRunning(id)
	if core.OverSoftLimit(job.Files) {
		notices = append(notices, fmt.Sprintf(
			"inputs exceed %d MB; processing may be slow or fail on low-memory devices", core.SoftInputLimit>>20))
	}

	result, err := strategy(jobCtx, mods, job.Files, job.Options, func(frac float64) {
		w.queue.SetProgress(id, resolveShare+(1-resolveShare)*frac)
	})
	if err != nil {
		if w.cancelled(jobCtx, id) || errors.Is(err, context.Canceled) {
			w.queue.MarkCancelled(id)
			return
		}
		w.queue.Fail(id, err)
		return
	}
	if w.cancelled(jobCtx, id) {
		// Partial output is discarded, never returned as a success.
		w.queue.MarkCancelled(id)
		return
	}

	// Step 4: commit.
	result.Notices = append(result.Notices, notices...)
	w.queue.Complete(id, result)
}

func (w *Worker) cancelled(ctx context.Context, id string) bool {
	return ctx.Err() != nil || w.queue.CancelRequested(id)
}

// resolve loads every module the job needs and picks the strategy. Failure
// of a mandatory module surfaces ErrModuleUnavailable; the optional native
// compressor degrades through tier fallback instead.
func (w *Worker) resolve(ctx context.Context, job *core.Job) (map[core.ModuleID][]byte, pipeline.Strategy, []string, error) {
	bundles := make(map[core.ModuleID][]byte)

	for _, id := range job.Op.RequiredModules() {
		handle, err := w.loader.Request(ctx, id)
		if err != nil {
			w.config.Logger.Error("module resolution failed", "job_id", job.ID, "module", id, "error", err)
			return nil, nil, nil, fmt.Errorf("%w: %s: %v", core.ErrModuleUnavailable, id, err)
		}
		bundles[handle.ID] = handle.Blob
	}

	var notices []string
	strategy := strategyFor(job.Op)

	if job.Op == core.OpCompress {
		native, _ := w.loader.Status(core.ModuleNativeCompress)
		decision := tier.Decide(job.Op, job.Options, native, w.loader.Online())

		if decision.Resolve {
			wait := decision.Wait
			if w.config.AdvancedWait > 0 {
				wait = w.config.AdvancedWait
			}
			rctx, cancel := context.WithTimeout(ctx, wait)
			handle, err := w.loader.Request(rctx, core.ModuleNativeCompress)
			cancel()
			if err != nil {
				w.config.Logger.Warn("advanced module unavailable, falling back",
					"job_id", job.ID, "error", err)
				decision = tier.Decision{Tier: tier.Lightweight, Notice: tier.NoticeTimeoutFallback}
			} else {
				bundles[handle.ID] = handle.Blob
			}
		} else if decision.Tier == tier.Advanced {
			handle, err := w.loader.Request(ctx, core.ModuleNativeCompress)
			if err != nil {
				decision = tier.Decision{Tier: tier.Lightweight, Notice: tier.NoticeTimeoutFallback}
			} else {
				bundles[handle.ID] = handle.Blob
			}
		}

		if decision.Notice != "" {
			notices = append(notices, decision.Notice)
		}
		if decision.Tier == tier.Advanced {
			strategy = pipeline.CompressAdvanced
		} else {
			strategy = pipeline.CompressLightweight
		}
	}

	return bundles, strategy, notices, nil
}

// strategyFor maps each operation to its pipeline strategy at compile time.
// Compress defaults to lightweight; tier selection may upgrade it.
func strategyFor(op core.Operation) pipeline.Strategy {
	switch op {
	case core.OpMerge:
		return pipeline.Merge
	case core.OpRasterize:
		return pipeline.Rasterize
	case core.OpAssemble:
		return pipeline.Assemble
	default:
		return pipeline.CompressLightweight
	}
}
