package preview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultJoinTimeout bounds how long Submit waits for a superseded job.
const DefaultJoinTimeout = 50 * time.Millisecond

// Coordinator keeps at most one job active. Each Submit cancels the active
// job, waits for it up to the join timeout, then starts a new one with the
// next generation. Waiting is best effort: a job that ignores cancellation
// keeps running after it is superseded, so callers must check Current
// before treating a job's output as authoritative.
type Coordinator struct {
	body        func(*Job)
	joinTimeout time.Duration
	clock       clockz.Clock
	inline      bool
	onSupersede func(prev *Job, joined bool)

	generation atomic.Uint64

	mu     sync.Mutex
	active *Job
	runs   int
	idle   chan struct{}
}

// NewCoordinator creates a Coordinator that runs body for every submitted job.
func NewCoordinator(body func(*Job)) *Coordinator {
	idle := make(chan struct{})
	close(idle)
	return &Coordinator{
		body:        body,
		joinTimeout: DefaultJoinTimeout,
		clock:       clockz.RealClock,
		idle:        idle,
	}
}

// JoinTimeout sets the bound on waiting for a superseded job.
// Zero means do not wait at all. Must be called before the first Submit.
func (c *Coordinator) JoinTimeout(d time.Duration) *Coordinator {
	c.joinTimeout = d
	return c
}

// Clock sets the clock used for the join timer. Must be called before the first Submit.
func (c *Coordinator) Clock(clock clockz.Clock) *Coordinator {
	c.clock = clock
	return c
}

// Inline makes Submit run the job body on the caller's goroutine.
// Must be called before the first Submit.
func (c *Coordinator) Inline() *Coordinator {
	c.inline = true
	return c
}

// OnSupersede sets a callback invoked, under the coordinator lock, each
// time an active job is superseded. joined reports whether the old job
// finished within the join timeout.
func (c *Coordinator) OnSupersede(fn func(prev *Job, joined bool)) *Coordinator {
	c.onSupersede = fn
	return c
}

// Submit supersedes the active job, if any, and starts a new one. Unless
// the coordinator is inline it returns without waiting for the new body.
func (c *Coordinator) Submit(ctx context.Context, text string, category Category) *Job {
	job := c.dispatch(ctx, text, category)
	if c.inline {
		c.run(job)
	} else {
		go c.run(job)
	}
	return job
}

// dispatch replaces the active slot. The whole supersede runs under c.mu
// so concurrent submits register exactly one job each, in order.
func (c *Coordinator) dispatch(ctx context.Context, text string, category Category) *Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev := c.active; prev != nil {
		prev.Cancel()
		joined := c.join(prev)
		if c.onSupersede != nil {
			c.onSupersede(prev, joined)
		}
	}

	job := newJob(ctx, c.generation.Add(1), text, category)
	c.active = job
	if c.runs == 0 {
		c.idle = make(chan struct{})
	}
	c.runs++
	return job
}

// join waits for prev to finish, bounded by the join timeout.
func (c *Coordinator) join(prev *Job) bool {
	if c.joinTimeout <= 0 {
		select {
		case <-prev.done:
			return true
		default:
			return false
		}
	}

	timer := c.clock.NewTimer(c.joinTimeout)
	defer timer.Stop()

	select {
	case <-prev.done:
		return true
	case <-timer.C():
		return false
	}
}

// run executes the body. Done is closed before deregistering because a
// concurrent Submit may be joining this job while holding c.mu.
func (c *Coordinator) run(job *Job) {
	defer c.deregister(job)
	defer job.finish()
	c.body(job)
}

func (c *Coordinator) deregister(job *Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == job {
		c.active = nil
	}
	c.runs--
	if c.runs == 0 {
		close(c.idle)
	}
}

// Active returns the registered job, if any.
func (c *Coordinator) Active() (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != nil
}

// Generation returns the generation of the most recent submit.
func (c *Coordinator) Generation() uint64 {
	return c.generation.Load()
}

// Current reports whether generation belongs to the most recent submit.
func (c *Coordinator) Current(generation uint64) bool {
	return c.generation.Load() == generation
}

// Running returns how many job bodies are executing. It can exceed one
// while a superseded job that ignored cancellation is still finishing.
func (c *Coordinator) Running() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// Cancel cancels the active job without submitting a new one.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Cancel()
	}
}

// Wait blocks until no job body is executing or ctx is done.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
