package preview

import (
	"context"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// Outcome describes how a job ended.
type Outcome int32

const (
	// OutcomePending means the job body has not finished.
	OutcomePending Outcome = iota
	// OutcomeDelivered means formatted output was handed to the sink.
	OutcomeDelivered
	// OutcomeEmpty means the source was empty and was shown without formatting.
	OutcomeEmpty
	// OutcomeFailed means the formatter failed; the display was left untouched.
	OutcomeFailed
	// OutcomeCanceled means the job observed its cancellation.
	OutcomeCanceled
	// OutcomeStale means the job's output arrived after a newer job was
	// submitted and was dropped.
	OutcomeStale
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Job is one preview recomputation. Cancellation is cooperative: Cancel
// cancels the context handed to the formatter, nothing more.
type Job struct {
	id         string
	generation uint64
	text       string
	category   Category

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	outcome  atomic.Int32
	canceled atomic.Bool
}

func newJob(parent context.Context, generation uint64, text string, category Category) *Job {
	ctx, cancel := context.WithCancel(parent)
	return &Job{
		id:         ulid.Make().String(),
		generation: generation,
		text:       text,
		category:   category,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// ID returns the job's ULID.
func (j *Job) ID() string { return j.id }

// Generation returns the coordinator generation assigned on submit.
func (j *Job) Generation() uint64 { return j.generation }

// Text returns the source text the job formats.
func (j *Job) Text() string { return j.text }

// Category returns the category that triggered the job.
func (j *Job) Category() Category { return j.category }

// Cancel requests the job to stop.
func (j *Job) Cancel() {
	j.canceled.Store(true)
	j.cancel()
}

// Canceled reports whether Cancel was called.
func (j *Job) Canceled() bool { return j.canceled.Load() }

// Done is closed when the job body has returned, after rollback.
func (j *Job) Done() <-chan struct{} { return j.done }

// Outcome returns how the job ended so far. A delivered job can still
// become stale when its output is dropped at apply time.
func (j *Job) Outcome() Outcome { return Outcome(j.outcome.Load()) }

func (j *Job) setOutcome(o Outcome) {
	j.outcome.Store(int32(o))
}

// markStale records that output was dropped. Only jobs that produced
// something to show become stale; canceled jobs keep their outcome. It
// reports whether the outcome changed.
func (j *Job) markStale() bool {
	for {
		cur := Outcome(j.outcome.Load())
		switch cur {
		case OutcomeDelivered, OutcomeEmpty, OutcomeFailed:
		default:
			return false
		}
		if j.outcome.CompareAndSwap(int32(cur), int32(OutcomeStale)) {
			return true
		}
	}
}

// finish releases the job's context and closes Done.
func (j *Job) finish() {
	j.cancel()
	close(j.done)
}
