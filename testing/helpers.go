// Package testing provides test utilities and helpers for preview session testing.
package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/preview"
)

// ErrFormat is returned by FailingFormatter.
var ErrFormat = errors.New("formatter failed")

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the session reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, s *preview.Session, expected preview.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return s.State() == expected
	})
}

// WaitForDisplayed waits until the session's sink shows expected.
func WaitForDisplayed(t *testing.T, s *preview.Session, expected string, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return s.Displayed() == expected
	})
}

// RequireState fails the test immediately if the session is not in the expected state.
func RequireState(t *testing.T, s *preview.Session, expected preview.State) {
	t.Helper()
	if got := s.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireDisplayed fails the test immediately if the sink does not show expected.
func RequireDisplayed(t *testing.T, s *preview.Session, expected string) {
	t.Helper()
	if got := s.Displayed(); got != expected {
		t.Fatalf("expected %q displayed, got %q", expected, got)
	}
}

// RequireUnchanged fails the test if the store's effective values differ from before.
func RequireUnchanged(t *testing.T, store *preview.Store, before map[string]any) {
	t.Helper()
	after := store.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("settings changed: before %v, after %v", before, after)
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("setting %s changed from %v to %v", k, v, after[k])
		}
	}
}

// NewTestSession creates and starts a sync-mode session over a fresh store
// and display. The session stops when the test ends.
func NewTestSession(t *testing.T, f preview.Formatter) (*preview.Session, *preview.Store, *preview.Display) {
	t.Helper()
	store := preview.NewStore()
	display := preview.NewDisplay()
	s := preview.New(store, f, display).
		SyncMode().
		Diagnostics(&preview.LevelVar{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s, store, display
}

// SleepFormatter returns a formatter that takes d before echoing its input.
// With honorCancel it returns early with the context's error once canceled;
// without it, it sleeps the full duration regardless.
func SleepFormatter(d time.Duration, honorCancel bool) preview.Formatter {
	return preview.FormatterFunc(func(ctx context.Context, source string, _ preview.Category, _ preview.Reader) (string, error) {
		if !honorCancel {
			time.Sleep(d)
			return source, nil
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return source, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}

// FailingFormatter returns a formatter that always fails with ErrFormat.
func FailingFormatter() preview.Formatter {
	return preview.FormatterFunc(func(context.Context, string, preview.Category, preview.Reader) (string, error) {
		return "", ErrFormat
	})
}
