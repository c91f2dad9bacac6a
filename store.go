package preview

import (
	"context"
	"maps"
	"sync"

	"github.com/golang/glog"
	"github.com/zoobzio/capitan"
)

// Store is a keyed settings store with default fallback and
// checkpoint/rollback. It is shared by the host editor and every preview
// job; Acquire serializes the checkpoint..rollback section of jobs.
type Store struct {
	mu       sync.RWMutex
	values   map[string]any
	defaults map[string]any
	durable  map[string]any
	frames   []frame
	nextID   uint64

	lease chan struct{}
}

// frame is one open checkpoint: the values as they were when it was taken.
type frame struct {
	id     uint64
	values map[string]any
}

// Checkpoint is an opaque handle on a store snapshot. It must be rolled
// back exactly once by the code that created it.
type Checkpoint struct {
	id    uint64
	store *Store
}

// ID returns the checkpoint's sequence number, for logging.
func (c Checkpoint) ID() uint64 {
	return c.id
}

// NewStore creates an empty store. Its durable state starts empty.
func NewStore() *Store {
	return &Store{
		values:   make(map[string]any),
		defaults: make(map[string]any),
		durable:  make(map[string]any),
		lease:    make(chan struct{}, 1),
	}
}

// SetDefault registers the value returned for name when no explicit value
// is stored. Defaults are not affected by checkpoints.
func (s *Store) SetDefault(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[name] = v
}

// Lookup returns the explicit value for name, falling back to its default.
func (s *Store) Lookup(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[name]; ok {
		return v, true
	}
	v, ok := s.defaults[name]
	return v, ok
}

// Set stores an explicit value.
func (s *Store) Set(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
}

// Apply stores every value in overrides under a single lock.
func (s *Store) Apply(overrides map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.values, overrides)
}

// Delete removes the explicit value for name so reads fall back to the default.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

// Snapshot returns the effective settings: defaults overlaid with explicit values.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.defaults)+len(s.values))
	maps.Copy(out, s.defaults)
	maps.Copy(out, s.values)
	return out
}

// Depth returns the number of open checkpoints.
func (s *Store) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Commit marks the current explicit values as the durable state that a
// failed rollback restores. It refuses while a checkpoint is open, since
// the current values may contain transient overrides.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 0 {
		return ErrCheckpointOpen
	}
	s.durable = maps.Clone(s.values)
	return nil
}

// Checkpoint captures the explicit values so a later Rollback can discard
// every write made after this call.
func (s *Store) Checkpoint() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.frames = append(s.frames, frame{id: s.nextID, values: maps.Clone(s.values)})
	return Checkpoint{id: s.nextID, store: s}
}

// Rollback restores the values captured by cp and closes it. Only the most
// recent open checkpoint can be rolled back. On any failure the store is
// forced back to its durable state, every open checkpoint is dropped and a
// *RollbackError is returned.
func (s *Store) Rollback(cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cp.store != s {
		return s.fail(cp, ErrCheckpointForeign)
	}

	top := len(s.frames) - 1
	for i := top; i >= 0; i-- {
		if s.frames[i].id != cp.id {
			continue
		}
		if i != top {
			return s.fail(cp, ErrCheckpointOrder)
		}
		s.values = s.frames[i].values
		s.frames = s.frames[:i]
		return nil
	}
	return s.fail(cp, ErrCheckpointUnknown)
}

// fail forces the durable state back in place. Caller holds s.mu.
func (s *Store) fail(cp Checkpoint, reason error) error {
	err := &RollbackError{Checkpoint: cp.id, Reason: reason}
	s.values = maps.Clone(s.durable)
	s.frames = nil

	glog.Errorf("preview: %v; settings forced back to durable state", err)
	capitan.Emit(context.Background(), StoreRollbackFailed,
		KeyCheckpoint.Field(int(cp.id)), //nolint:gosec // checkpoint ids are small
		KeyError.Field(err.Error()),
	)
	return err
}

// Acquire enters the store's exclusive section. It blocks until the section
// is free or ctx is done. The returned release func is safe to call twice.
func (s *Store) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.lease <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-s.lease })
	}, nil
}
