// Package trigger schedules callbacks on a simulated clock so effects that
// would otherwise land in the same frame can be sequenced into visible beats.
package trigger

import (
	"time"

	"go.uber.org/zap"
)

// pending is one scheduled trigger. cancelled marks a trigger that Cancel
// reached after the running Tick had already taken it as due.
type pending struct {
	seq       uint64
	source    string
	due       time.Duration
	fn        func()
	cancelled bool
}

// Queue holds pending triggers. Time only advances through Tick; there are
// no goroutines or wall-clock timers.
//
// Queue is not safe for concurrent use.
type Queue struct {
	now     time.Duration
	seq     uint64
	items   []*pending
	firing  []*pending
	ticking bool
	logger  *zap.Logger
}

// NewQueue creates an empty Queue.
//
// Precondition: logger must be non-nil.
func NewQueue(logger *zap.Logger) *Queue {
	return &Queue{logger: logger}
}

// Enqueue schedules fn to run once delay has elapsed on the queue clock.
// A delay <= 0 fires on the next Tick.
//
// Precondition: fn must be non-nil.
func (q *Queue) Enqueue(source string, fn func(), delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	q.seq++
	q.items = append(q.items, &pending{seq: q.seq, source: source, due: q.now + delay, fn: fn})
}

// Stagger enqueues fns so that the i-th fires i*step after now.
func (q *Queue) Stagger(source string, step time.Duration, fns ...func()) {
	for i, fn := range fns {
		q.Enqueue(source, fn, time.Duration(i)*step)
	}
}

// Tick advances the clock by dt and fires every trigger that is due, in the
// order it was enqueued. Each trigger is removed before it runs and fires at
// most once. Triggers enqueued by a callback during Tick are not fired until
// a later Tick, even when their delay is zero. A trigger cancelled by an
// earlier callback in the same Tick does not fire.
//
// Postcondition: returns the number of triggers fired.
func (q *Queue) Tick(dt time.Duration) int {
	if q.ticking {
		q.logger.Warn("trigger: nested Tick ignored")
		return 0
	}
	q.ticking = true
	defer func() {
		q.ticking = false
		q.firing = nil
	}()

	if dt > 0 {
		q.now += dt
	}
	var due []*pending
	kept := q.items[:0]
	for _, p := range q.items {
		if p.due <= q.now {
			due = append(due, p)
		} else {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = nil
	}
	q.items = kept
	fired := 0
	for i, p := range due {
		q.firing = due[i+1:]
		if p.cancelled {
			continue
		}
		q.logger.Debug("trigger fired", zap.String("source", p.source), zap.Duration("at", q.now))
		p.fn()
		fired++
	}
	return fired
}

// Cancel drops every pending trigger from source, including those already
// due in a Tick that is running but have not fired yet.
//
// Postcondition: returns the number of triggers dropped.
func (q *Queue) Cancel(source string) int {
	n := 0
	for _, p := range q.firing {
		if p.source == source && !p.cancelled {
			p.cancelled = true
			n++
		}
	}
	kept := q.items[:0]
	for _, p := range q.items {
		if p.source == source {
			n++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = nil
	}
	q.items = kept
	return n
}

// Pending returns the number of triggers waiting for source.
func (q *Queue) Pending(source string) int {
	n := 0
	for _, p := range q.items {
		if p.source == source {
			n++
		}
	}
	return n
}

// Len returns the number of pending triggers.
func (q *Queue) Len() int { return len(q.items) }

// Now returns the queue clock.
func (q *Queue) Now() time.Duration { return q.now }

// Flush ticks by step until the queue is empty or maxTicks ticks have run.
//
// Postcondition: returns the total number of triggers fired.
func (q *Queue) Flush(step time.Duration, maxTicks int) int {
	fired := 0
	for i := 0; i < maxTicks && len(q.items) > 0; i++ {
		fired += q.Tick(step)
	}
	if len(q.items) > 0 {
		q.logger.Warn("trigger: flush stopped with triggers pending", zap.Int("pending", len(q.items)))
	}
	return fired
}
