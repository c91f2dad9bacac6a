package preview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Session keeps a preview of formatted text in sync with the settings
// being edited. Each Request supersedes the previous one; the formatter
// runs with category overrides layered onto the shared Store, and the
// overrides are rolled back whatever the outcome.
type Session struct {
	store     *Store
	formatter Formatter
	sink      Sink

	joinTimeout   time.Duration
	debounce      time.Duration
	formatTimeout time.Duration
	quietLevel    int
	queueSize     int
	syncMode      bool
	clock         clockz.Clock
	metrics       MetricsProvider
	diagnostics   Diagnostics
	executor      Executor
	onStop        func(State)

	coordinator *Coordinator

	state        atomic.Int32
	delivered    atomic.Bool
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]
	history      *ring[Record]

	mu       sync.Mutex
	started  bool
	ctx      context.Context
	original string
	category Category
}

// Record summarizes a finished job for History.
type Record struct {
	ID         string
	Generation uint64
	Category   Category
	Outcome    Outcome
	Duration   time.Duration
}

// DefaultHistorySize is how many job records History keeps.
const DefaultHistorySize = 32

// New creates a Session that formats with formatter, overlays overrides
// on store and shows results on sink.
//
// Example:
//
//	display := preview.NewDisplay()
//	session := preview.New(store, formatter, display).
//	    JoinTimeout(50 * time.Millisecond)
//
//	if err := session.Start(ctx); err != nil {
//	    return err
//	}
//	session.Request(source, preview.CategoryBraces)
func New(store *Store, formatter Formatter, sink Sink) *Session {
	s := &Session{
		store:       store,
		formatter:   formatter,
		sink:        sink,
		joinTimeout: DefaultJoinTimeout,
		debounce:    DefaultDebounce,
		quietLevel:  DefaultQuietLevel,
		queueSize:   DefaultQueueSize,
		clock:       clockz.RealClock,
		metrics:     NoOpMetricsProvider{},
		diagnostics: GlogDiagnostics{},
		history:     newRing[Record](DefaultHistorySize),
		category:    CategoryGeneral,
	}
	s.state.Store(int32(StateLoading))
	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// JoinTimeout sets how long a request waits for the job it supersedes.
// Default: 50ms. Must be called before Start().
func (s *Session) JoinTimeout(d time.Duration) *Session {
	s.joinTimeout = d
	return s
}

// Debounce sets the coalescing window used by Follow.
// Default: 100ms. Must be called before Start().
func (s *Session) Debounce(d time.Duration) *Session {
	s.debounce = d
	return s
}

// FormatTimeout bounds each formatter call through its context. Zero
// (default) leaves the call unbounded. Must be called before Start().
func (s *Session) FormatTimeout(d time.Duration) *Session {
	s.formatTimeout = d
	return s
}

// SyncMode runs every job on the goroutine calling Request and applies
// results immediately, making tests deterministic. Must be called before Start().
func (s *Session) SyncMode() *Session {
	s.syncMode = true
	return s
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic timing in tests.
// Must be called before Start().
func (s *Session) Clock(clock clockz.Clock) *Session {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider. Must be called before Start().
func (s *Session) Metrics(provider MetricsProvider) *Session {
	s.metrics = provider
	return s
}

// Diagnostics sets the verbosity control jobs lower while formatting.
// Default: GlogDiagnostics. Must be called before Start().
func (s *Session) Diagnostics(d Diagnostics) *Session {
	s.diagnostics = d
	return s
}

// QuietLevel caps the verbosity while the formatter runs. A host already
// below it keeps its own level. Must be called before Start().
func (s *Session) QuietLevel(level int) *Session {
	s.quietLevel = level
	return s
}

// Executor sets where display updates run. Without one, Start runs an
// internal Loop. Must be called before Start().
func (s *Session) Executor(e Executor) *Session {
	s.executor = e
	return s
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (s *Session) ErrorHistorySize(n int) *Session {
	s.errorHistory = newRing[error](n)
	return s
}

// OnStop sets a callback invoked with the final state when the Session's
// context ends. Must be called before Start().
func (s *Session) OnStop(fn func(State)) *Session {
	s.onStop = fn
	return s
}

// Configure applies a loaded Config. Must be called before Start().
func (s *Session) Configure(cfg Config) *Session {
	s.joinTimeout = cfg.JoinTimeout.Std()
	s.debounce = cfg.Debounce.Std()
	s.formatTimeout = cfg.FormatTimeout.Std()
	s.quietLevel = cfg.QuietLevel
	if cfg.QueueSize > 0 {
		s.queueSize = cfg.QueueSize
	}
	return s.ErrorHistorySize(cfg.ErrorHistory)
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start prepares the Session to accept requests. The Session stops when
// ctx ends: the active job is canceled and pending display updates are
// dropped. Start can only be called once.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	s.formatter = WithTimeout(s.formatter, s.formatTimeout)
	s.coordinator = NewCoordinator(s.run).
		JoinTimeout(s.joinTimeout).
		Clock(s.clock).
		OnSupersede(s.superseded)

	switch {
	case s.syncMode:
		s.coordinator.Inline()
		if s.executor == nil {
			s.executor = Inline{}
		}
	case s.executor == nil:
		loop := NewLoop(s.queueSize)
		s.executor = loop
		go loop.Run(ctx)
	}

	s.started = true
	s.ctx = ctx

	capitan.Emit(ctx, SessionStarted,
		KeyJoinTimeout.Field(s.joinTimeout),
		KeyDebounce.Field(s.debounce),
	)

	go s.awaitStop(ctx)
	return nil
}

func (s *Session) awaitStop(ctx context.Context) {
	<-ctx.Done()
	s.coordinator.Cancel()

	finalState := s.State()
	capitan.Emit(ctx, SessionStopped,
		KeyState.Field(finalState.String()),
	)
	if s.onStop != nil {
		s.onStop(finalState)
	}
}

// Request formats text for category, superseding any job in flight. It
// returns once the new job is registered; in sync mode the job has also
// finished. Format failures are not returned: they are visible through
// State, LastError and ErrorHistory. Once the Session's context has ended
// Request returns ErrSessionStopped.
func (s *Session) Request(text string, category Category) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	if s.ctx.Err() != nil {
		return nil, ErrSessionStopped
	}
	if s.State() == StateFaulted {
		return nil, ErrSessionFaulted
	}

	s.original = text
	s.category = category

	job := s.coordinator.Submit(s.ctx, text, category)

	capitan.Emit(s.ctx, JobSubmitted,
		KeyJobID.Field(job.ID()),
		KeyGeneration.Field(int(job.Generation())), //nolint:gosec // generations stay far below MaxInt
		KeyCategory.Field(string(category)),
		KeySize.Field(len(text)),
	)
	s.metrics.OnJobSubmitted()
	return job, nil
}

// SwitchCategory re-requests the current original text under a new category.
func (s *Session) SwitchCategory(category Category) (*Job, error) {
	return s.Request(s.Original(), category)
}

// superseded runs under the coordinator lock when a job is replaced.
func (s *Session) superseded(prev *Job, joined bool) {
	capitan.Emit(s.ctx, JobSuperseded,
		KeyJobID.Field(prev.ID()),
		KeyGeneration.Field(int(prev.Generation())), //nolint:gosec // generations stay far below MaxInt
	)
	if !joined {
		capitan.Emit(s.ctx, JobJoinTimedOut,
			KeyJobID.Field(prev.ID()),
			KeyJoinTimeout.Field(s.joinTimeout),
		)
		glog.V(2).Infof("preview: job %s still running after %v, abandoning", prev.ID(), s.joinTimeout)
	}
	s.metrics.OnJobSuperseded(joined)
}

// Drain waits until no job is running and every display update posted so
// far has been applied.
func (s *Session) Drain(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	if err := s.coordinator.Wait(ctx); err != nil {
		return err
	}

	barrier := make(chan struct{})
	if !s.executor.Post(func() { close(barrier) }) {
		return context.Canceled
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset clears the faulted state and the error history after the host has
// repaired its settings.
func (s *Session) Reset() {
	next := StateLoading
	if s.delivered.Load() {
		next = StateHealthy
	}
	if s.state.CompareAndSwap(int32(StateFaulted), int32(next)) {
		s.lastError.Store(nil)
		s.errorHistory.clear()
		s.emitTransition(StateFaulted, next)
	}
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// State returns the current state of the Session.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Original returns the text of the most recent request.
func (s *Session) Original() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Category returns the category of the most recent request.
func (s *Session) Category() Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Displayed returns the text currently shown by the sink.
func (s *Session) Displayed() string {
	return s.sink.CurrentText()
}

// Active returns the registered job, if any.
func (s *Session) Active() (*Job, bool) {
	s.mu.Lock()
	c := s.coordinator
	s.mu.Unlock()
	if c == nil {
		return nil, false
	}
	return c.Active()
}

// Running returns how many job bodies are executing.
func (s *Session) Running() int {
	s.mu.Lock()
	c := s.coordinator
	s.mu.Unlock()
	if c == nil {
		return 0
	}
	return c.Running()
}

// LastError returns the last error encountered, or nil after a successful preview.
func (s *Session) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (s *Session) ErrorHistory() []error {
	return s.errorHistory.all()
}

// History returns records of recently finished jobs, oldest first.
func (s *Session) History() []Record {
	return s.history.all()
}

// -----------------------------------------------------------------------------
// State
// -----------------------------------------------------------------------------

// failureState returns the appropriate failure state based on whether
// a preview has ever been delivered.
func (s *Session) failureState() State {
	if s.delivered.Load() {
		return StateDegraded
	}
	return StateEmpty
}

// transition moves to next unless the Session is faulted; only Reset
// leaves StateFaulted.
func (s *Session) transition(next State) {
	for {
		old := s.State()
		if old == next || old == StateFaulted {
			return
		}
		if s.state.CompareAndSwap(int32(old), int32(next)) {
			s.emitTransition(old, next)
			return
		}
	}
}

func (s *Session) fault() {
	old := State(s.state.Swap(int32(StateFaulted)))
	if old != StateFaulted {
		s.emitTransition(old, StateFaulted)
	}
}

func (s *Session) emitTransition(old, next State) {
	capitan.Emit(s.ctx, SessionStateChanged,
		KeyOldState.Field(old.String()),
		KeyNewState.Field(next.String()),
	)
	s.metrics.OnStateChange(old, next)
}

// setError stores an error atomically and adds it to the error history.
func (s *Session) setError(err error) {
	e := err
	s.lastError.Store(&e)
	s.errorHistory.push(err)
}
