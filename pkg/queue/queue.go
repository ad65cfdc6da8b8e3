// Package queue provides the job orchestrator's public surface: submission
// with synchronous size validation, FIFO ordering, cancellation, progress,
// and terminal results. Job state lives here and only here; workers commit
// transitions through this package, pipeline strategies never touch it.
package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrusco/local-pdf/pkg/core"
)

// Queue owns every job for its in-process lifetime.
type Queue struct {
	mu   sync.Mutex
	jobs map[string]*core.Job
	fifo []string // queued job ids in submission order

	cancels         map[string]context.CancelFunc
	cancelRequested map[string]bool

	eventSubs []chan core.Event

	onStart []func(*core.Job)
	onDone  []func(*core.Job)
	onFail  []func(*core.Job, error)

	logger *slog.Logger
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		jobs:            make(map[string]*core.Job),
		cancels:         make(map[string]context.CancelFunc),
		cancelRequested: make(map[string]bool),
		logger:          slog.Default(),
	}
}

// Precheck validates total input size before submission, for UI-side checks.
func (q *Queue) Precheck(files []core.File) error {
	return core.ValidateInputSize(files)
}

// Submit validates and enqueues a job. The size ceiling is checked before
// anything else: a violation returns ErrSizeLimitExceeded synchronously and
// leaves the queue unchanged.
func (q *Queue) Submit(op core.Operation, files []core.File, options core.Options) (string, error) {
	if !op.Valid() {
		return "", core.ErrUnknownOperation
	}
	if len(files) == 0 {
		return "", core.ErrNoInputFiles
	}
	if err := core.ValidateInputSize(files); err != nil {
		return "", err
	}
	if err := core.ValidateReorder(options.Reorder, len(files)); err != nil {
		return "", err
	}

	job := &core.Job{
		ID:        uuid.New().String(),
		Op:        op,
		Files:     files,
		Options:   options,
		State:     core.StateQueued,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.fifo = append(q.fifo, job.ID)
	q.mu.Unlock()

	return job.ID, nil
}

// Dequeue pops the next queued job in submission order, or nil when no job
// is waiting. The returned job must only be mutated through queue methods.
func (q *Queue) Dequeue() *core.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.fifo) == 0 {
		return nil
	}
	id := q.fifo[0]
	q.fifo = q.fifo[1:]
	return q.jobs[id]
}

// Len returns the number of jobs waiting to start.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fifo)
}

// Cancel transitions a non-terminal job toward Cancelled. A queued job is
// cancelled immediately; a running job's context is cancelled and the worker
// commits the terminal state at the next step boundary.
func (q *Queue) Cancel(id string) error {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok {
		q.mu.Unlock()
		return core.ErrJobNotFound
	}
	if job.State.Terminal() {
		q.mu.Unlock()
		return core.ErrJobTerminal
	}

	if job.State == core.StateQueued {
		for i, fid := range q.fifo {
			if fid == id {
				q.fifo = append(q.fifo[:i], q.fifo[i+1:]...)
				break
			}
		}
		q.terminate(job, core.StateCancelled, nil, nil)
		subs := q.snapshotSubs()
		q.mu.Unlock()
		q.emit(subs, &core.JobCancelled{Job: job, Timestamp: time.Now()})
		return nil
	}

	q.cancelRequested[id] = true
	cancel := q.cancels[id]
	q.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// CancelRequested reports whether a cancel arrived for the job. Workers check
// it at step boundaries alongside their context.
func (q *Queue) CancelRequested(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancelRequested[id]
}

// Progress returns the job's progress fraction in [0,1]. It is monotonically
// non-decreasing while the job runs.
func (q *Queue) Progress(id string) (float64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return 0, core.ErrJobNotFound
	}
	return job.Progress, nil
}

// State returns the job's current state.
func (q *Queue) State(id string) (core.JobState, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return "", core.ErrJobNotFound
	}
	return job.State, nil
}

// Result returns the terminal result. Before the job terminates it returns
// ErrJobNotDone; a failed job returns its error, a cancelled one ErrCancelled.
func (q *Queue) Result(id string) (*core.Result, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return nil, core.ErrJobNotFound
	}
	switch job.State {
	case core.StateSucceeded:
		return job.Result, nil
	case core.StateFailed:
		return nil, job.Err
	case core.StateCancelled:
		return nil, core.ErrCancelled
	default:
		return nil, core.ErrJobNotDone
	}
}

// Dispose drops a terminal job and its buffers once the caller has taken the
// result or error.
func (q *Queue) Dispose(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return core.ErrJobNotFound
	}
	if !job.State.Terminal() {
		return core.ErrJobNotDone
	}
	delete(q.jobs, id)
	delete(q.cancelRequested, id)
	return nil
}
