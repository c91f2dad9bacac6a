package preview

import (
	"context"
	"sync"
)

// DefaultQueueSize is the default capacity of a Loop's queue.
const DefaultQueueSize = 64

// Executor runs display updates on the context that owns the display.
// Jobs never touch the sink directly; they post to an Executor.
type Executor interface {
	// Post schedules fn. It reports false if fn will never run.
	Post(fn func()) bool
}

// Loop is an Executor backed by a single consuming goroutine. Tasks run
// one at a time in the order they were posted.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a Loop whose queue holds size pending tasks.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and returns false
// once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run consumes tasks until ctx is done. Tasks still queued at that point
// are dropped.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Inline is an Executor that runs tasks on the posting goroutine. It is
// only safe when a single goroutine submits work, as in sync mode.
type Inline struct{}

// Post runs fn immediately.
func (Inline) Post(fn func()) bool {
	fn()
	return true
}

var (
	_ Executor = (*Loop)(nil)
	_ Executor = Inline{}
)
