package core

import "time"

// Event is the interface for all orchestrator events.
type Event interface {
	eventMarker()
}

// JobStarted is emitted when a job begins module resolution.
type JobStarted struct {
	Job       *Job
	Timestamp time.Time
}

func (*JobStarted) eventMarker() {}

// JobSucceeded is emitted when a job completes with a result.
type JobSucceeded struct {
	Job       *Job
	Duration  time.Duration
	Timestamp time.Time
}

func (*JobSucceeded) eventMarker() {}

// JobFailed is emitted when a job terminates with an error.
type JobFailed struct {
	Job       *Job
	Error     error
	Timestamp time.Time
}

func (*JobFailed) eventMarker() {}

// JobCancelled is emitted when a job is cancelled by the user.
type JobCancelled struct {
	Job       *Job
	Timestamp time.Time
}

func (*JobCancelled) eventMarker() {}

// FallbackApplied is emitted when a lighter-weight strategy was substituted
// for the requested one, e.g. lightweight compression while offline.
type FallbackApplied struct {
	Job       *Job
	Notice    string
	Timestamp time.Time
}

func (*FallbackApplied) eventMarker() {}

// ModuleStatusChanged is emitted by the module loader whenever a descriptor's
// load status transitions.
type ModuleStatusChanged struct {
	Module    ModuleID
	From      LoadStatus
	To        LoadStatus
	Timestamp time.Time
}

func (*ModuleStatusChanged) eventMarker() {}
