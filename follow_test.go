package preview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// applied records every text a Display receives.
type applied struct {
	mu    sync.Mutex
	texts []string
}

func (a *applied) record(text string, _ int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.texts = append(a.texts, text)
}

func (a *applied) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.texts...)
}

func waitDisplayed(t *testing.T, display *Display, want string, tick func()) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for display.Text() != want {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %q, displayed %q", want, display.Text())
		default:
			if tick != nil {
				tick()
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func newFollowSession(t *testing.T, clock clockz.Clock, debounce time.Duration) (*Session, *Display, *applied) {
	t.Helper()
	var rec applied
	display := NewDisplay().OnChange(rec.record)
	s := New(NewStore(), Identity, display).
		SyncMode().
		Diagnostics(&LevelVar{}).
		Clock(clock).
		Debounce(debounce)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return s, display, &rec
}

func TestFollow_CoalescesBursts(t *testing.T) {
	clock := clockz.NewFakeClock()
	s, display, rec := newFollowSession(t, clock, 100*time.Millisecond)

	edits := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Follow(ctx, NewDirectChannelWatcher(edits)); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	edits <- []byte("a")
	waitDisplayed(t, display, "a", nil)

	edits <- []byte("b")
	edits <- []byte("c")
	time.Sleep(10 * time.Millisecond)
	if display.Text() != "a" {
		t.Errorf("expected burst held back, displayed %q", display.Text())
	}

	waitDisplayed(t, display, "c", func() {
		clock.Advance(50 * time.Millisecond)
		clock.BlockUntilReady()
	})

	got := rec.all()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c] applied, got %v", got)
	}
	if s.Original() != "c" {
		t.Errorf("expected original c, got %q", s.Original())
	}
}

func TestFollow_FlushesOnClose(t *testing.T) {
	clock := clockz.NewFakeClock()
	s, display, _ := newFollowSession(t, clock, time.Hour)

	edits := make(chan []byte)
	if err := s.Follow(context.Background(), NewDirectChannelWatcher(edits)); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	edits <- []byte("first")
	waitDisplayed(t, display, "first", nil)

	edits <- []byte("last")
	close(edits)
	waitDisplayed(t, display, "last", nil)
}

func TestFollow_NoDebounce(t *testing.T) {
	s, display, rec := newFollowSession(t, clockz.RealClock, 0)

	edits := make(chan []byte)
	if err := s.Follow(context.Background(), NewDirectChannelWatcher(edits)); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	for _, text := range []string{"1", "2", "3"} {
		edits <- []byte(text)
		waitDisplayed(t, display, text, nil)
	}
	close(edits)

	if got := rec.all(); len(got) != 3 {
		t.Errorf("expected every edit applied, got %v", got)
	}
}

func TestFollow_UsesCurrentCategory(t *testing.T) {
	var obs observer
	f := FormatterFunc(func(_ context.Context, source string, category Category, _ Reader) (string, error) {
		obs.add(observation{source: source, category: category})
		return source, nil
	})
	display := NewDisplay()
	s := New(NewStore(), f, display).SyncMode().Diagnostics(&LevelVar{}).Debounce(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Request("seed", CategoryImports)

	edits := make(chan []byte)
	if err := s.Follow(ctx, NewDirectChannelWatcher(edits)); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	edits <- []byte("edited")
	waitDisplayed(t, display, "edited", nil)

	seen := obs.all()
	if last := seen[len(seen)-1]; last.category != CategoryImports {
		t.Errorf("expected imports category, got %s", last.category)
	}
}

type failingWatcher struct{}

func (failingWatcher) Watch(context.Context) (<-chan []byte, error) {
	return nil, errors.New("no such source")
}

func TestFollow_WatchError(t *testing.T) {
	s, _, _ := newFollowSession(t, clockz.RealClock, 0)
	if err := s.Follow(context.Background(), failingWatcher{}); err == nil {
		t.Error("expected error from failing watcher")
	}
}
