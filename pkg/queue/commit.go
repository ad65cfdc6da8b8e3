package queue

import (
	"context"
	"time"

	"github.com/jrusco/local-pdf/pkg/core"
)

// The methods below are the worker's only way to move a job through its
// lifecycle. Events and hooks fire on the transitions they describe.

// RegisterCancel stores the running job's cancel function so Cancel can
// interrupt it. A cancel that raced submission is honored immediately.
func (q *Queue) RegisterCancel(id string, cancel context.CancelFunc) {
	q.mu.Lock()
	requested := q.cancelRequested[id]
	q.cancels[id] = cancel
	q.mu.Unlock()
	if requested {
		cancel()
	}
}

// UnregisterCancel removes the job's cancel function.
func (q *Queue) UnregisterCancel(id string) {
	q.mu.Lock()
	delete(q.cancels, id)
	q.mu.Unlock()
}

// MarkResolving moves a dequeued job into ResolvingModules and emits
// JobStarted.
func (q *Queue) MarkResolving(id string) {
	now := time.Now()
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.State.Terminal() {
		q.mu.Unlock()
		return
	}
	job.State = core.StateResolvingModules
	job.StartedAt = &now
	subs := q.snapshotSubs()
	hooks := append([]func(*core.Job){}, q.onStart...)
	q.mu.Unlock()

	for _, fn := range hooks {
		fn(job)
	}
	q.emit(subs, &core.JobStarted{Job: job, Timestamp: now})
}

// MarkRunning moves the job into Running.
func (q *Queue) MarkRunning(id string) {
	q.mu.Lock()
	if job, ok := q.jobs[id]; ok && !job.State.Terminal() {
		job.State = core.StateRunning
	}
	q.mu.Unlock()
}

// SetProgress commits a progress fraction. Progress never decreases and is
// clamped to [0,1].
func (q *Queue) SetProgress(id string, frac float64) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	q.mu.Lock()
	if job, ok := q.jobs[id]; ok && !job.State.Terminal() && frac > job.Progress {
		job.Progress = frac
	}
	q.mu.Unlock()
}

// Complete commits a successful result.
func (q *Queue) Complete(id string, result *core.Result) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.State.Terminal() {
		q.mu.Unlock()
		return
	}
	started := job.StartedAt
	q.terminate(job, core.StateSucceeded, result, nil)
	job.Progress = 1
	subs := q.snapshotSubs()
	hooks := append([]func(*core.Job){}, q.onDone...)
	q.mu.Unlock()

	for _, fn := range hooks {
		fn(job)
	}
	var dur time.Duration
	if started != nil {
		dur = time.Since(*started)
	}
	q.emit(subs, &core.JobSucceeded{Job: job, Duration: dur, Timestamp: time.Now()})

	for _, notice := range result.Notices {
		q.logger.Info("fallback applied", "job_id", id, "notice", notice)
		q.emit(subs, &core.FallbackApplied{Job: job, Notice: notice, Timestamp: time.Now()})
	}
}

// Fail commits a terminal failure.
func (q *Queue) Fail(id string, err error) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.State.Terminal() {
		q.mu.Unlock()
		return
	}
	q.terminate(job, core.StateFailed, nil, err)
	subs := q.snapshotSubs()
	hooks := append([]func(*core.Job, error){}, q.onFail...)
	q.mu.Unlock()

	for _, fn := range hooks {
		fn(job, err)
	}
	q.logger.Error("job failed", "job_id", id, "op", job.Op, "error", err)
	q.emit(subs, &core.JobFailed{Job: job, Error: err, Timestamp: time.Now()})
}

// MarkCancelled commits the Cancelled terminal state for an in-flight job.
// Partially produced output is discarded.
func (q *Queue) MarkCancelled(id string) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.State.Terminal() {
		q.mu.Unlock()
		return
	}
	q.terminate(job, core.StateCancelled, nil, nil)
	subs := q.snapshotSubs()
	q.mu.Unlock()

	q.emit(subs, &core.JobCancelled{Job: job, Timestamp: time.Now()})
}

// terminate writes the terminal state. Caller holds q.mu. Input buffers are
// released so a disposed-but-not-Disposed job doesn't pin file bytes.
func (q *Queue) terminate(job *core.Job, state core.JobState, result *core.Result, err error) {
	now := time.Now()
	job.State = state
	job.Result = result
	job.Err = err
	job.CompletedAt = &now
	job.Files = nil
	delete(q.cancelRequested, job.ID)
}
