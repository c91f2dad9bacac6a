package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Follow requests a preview each time the watcher emits new source text,
// using the Session's current category. Bursts arriving within the
// debounce window are coalesced into the last value. Follow returns once
// the watcher is running; the first value is requested without delay.
func (s *Session) Follow(ctx context.Context, w Watcher) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	go s.follow(ctx, changes)
	return nil
}

// follow forwards changes with debouncing until ctx ends or the channel closes.
func (s *Session) follow(ctx context.Context, changes <-chan []byte) {
	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
		first      = true
	)

	flush := func() {
		if !hasPending {
			return
		}
		hasPending = false
		if _, err := s.Request(string(pending), s.Category()); err != nil {
			glog.Warningf("preview: followed change dropped: %v", err)
		}
	}

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				flush()
				return
			}

			capitan.Emit(ctx, SourceChanged, KeySize.Field(len(raw)))
			pending = raw
			hasPending = true

			if first || s.debounce <= 0 {
				first = false
				flush()
				continue
			}

			if timer == nil {
				timer = s.clock.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(s.debounce)
			}

		case <-timerC:
			flush()
		}
	}
}
