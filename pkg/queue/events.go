package queue

import (
	"github.com/jrusco/local-pdf/pkg/core"
)

// Events returns a channel for receiving job lifecycle events. The caller
// must call Unsubscribe when done to prevent resource leaks.
func (q *Queue) Events() <-chan core.Event {
	ch := make(chan core.Event, 100)
	q.mu.Lock()
	q.eventSubs = append(q.eventSubs, ch)
	q.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Events.
func (q *Queue) Unsubscribe(ch <-chan core.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, sub := range q.eventSubs {
		if sub == ch {
			q.eventSubs = append(q.eventSubs[:i], q.eventSubs[i+1:]...)
			return
		}
	}
}

// OnJobStart registers a callback for when a job starts.
func (q *Queue) OnJobStart(fn func(*core.Job)) {
	q.mu.Lock()
	q.onStart = append(q.onStart, fn)
	q.mu.Unlock()
}

// OnJobDone registers a callback for when a job completes successfully.
func (q *Queue) OnJobDone(fn func(*core.Job)) {
	q.mu.Lock()
	q.onDone = append(q.onDone, fn)
	q.mu.Unlock()
}

// OnJobFail registers a callback for when a job fails.
func (q *Queue) OnJobFail(fn func(*core.Job, error)) {
	q.mu.Lock()
	q.onFail = append(q.onFail, fn)
	q.mu.Unlock()
}

// snapshotSubs copies the subscriber slice. Caller holds q.mu.
func (q *Queue) snapshotSubs() []chan core.Event {
	subs := make([]chan core.Event, len(q.eventSubs))
	copy(subs, q.eventSubs)
	return subs
}

func (q *Queue) emit(subs []chan core.Event, e core.Event) {
	for _, ch := range subs {
		select {
		case ch <- e:
		default:
			// Drop if full - this prevents blocking on slow consumers
		}
	}
}
