package engine

import (
	"sort"
	"time"
)

// TaskToken identifies a scheduled deferred task. The zero token is never
// issued and cancels nothing.
type TaskToken uint64

type deferredTask struct {
	due time.Time
	fn  func()
}

// Deferred schedules cancellable one-shot tasks against a real-time clock.
// Tasks fire during Advance, in due order, on the caller's goroutine; a
// cancelled task never fires. Designed for tick-driven use: the orchestrator
// calls Advance once per tick with the current real time.
type Deferred struct {
	clock TimeProvider
	tasks map[TaskToken]deferredTask
	next  TaskToken
}

// NewDeferred creates a scheduler reading real time from clock.
func NewDeferred(clock TimeProvider) *Deferred {
	return &Deferred{
		clock: clock,
		tasks: make(map[TaskToken]deferredTask),
	}
}

// Schedule arms fn to fire once delay has elapsed on the real-time clock.
func (d *Deferred) Schedule(delay time.Duration, fn func()) TaskToken {
	d.next++
	d.tasks[d.next] = deferredTask{
		due: d.clock.Now().Add(delay),
		fn:  fn,
	}
	return d.next
}

// Cancel disarms a pending task. Cancelling an unknown or already-fired
// token is a no-op.
func (d *Deferred) Cancel(token TaskToken) {
	delete(d.tasks, token)
}

// Pending reports whether the token refers to a still-armed task.
func (d *Deferred) Pending(token TaskToken) bool {
	_, ok := d.tasks[token]
	return ok
}

// Advance fires every task whose deadline has passed, earliest deadline
// first. Tasks are removed before invocation so a task rescheduling itself
// sees a clean slate.
func (d *Deferred) Advance(now time.Time) {
	var due []deferredTask
	for token, t := range d.tasks {
		if !now.Before(t.due) {
			due = append(due, t)
			delete(d.tasks, token)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].due.Before(due[j].due) })
	for _, t := range due {
		t.fn()
	}
}
