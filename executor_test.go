package preview

import (
	"context"
	"testing"
	"time"
)

func TestLoop_RunsInPostOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(8)
	go loop.Run(ctx)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		loop.Post(func() { order = append(order, i) })
	}
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop")
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("expected order 0..4, got %v", order)
		}
	}
}

func TestLoop_PostBeforeRunIsQueued(t *testing.T) {
	loop := NewLoop(2)
	ran := make(chan struct{})
	if !loop.Post(func() { close(ran) }) {
		t.Fatal("expected Post to queue before Run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queued task never ran")
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(1)
	go loop.Run(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	if loop.Post(func() {}) {
		t.Error("expected Post to fail after stop")
	}
}

func TestNewLoop_DefaultSize(t *testing.T) {
	loop := NewLoop(0)
	if cap(loop.queue) != DefaultQueueSize {
		t.Errorf("expected capacity %d, got %d", DefaultQueueSize, cap(loop.queue))
	}
}

func TestInline_RunsImmediately(t *testing.T) {
	ran := false
	if !(Inline{}).Post(func() { ran = true }) {
		t.Error("expected Post to succeed")
	}
	if !ran {
		t.Error("expected task to run before Post returned")
	}
}
