package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zoobzio/preview"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func receive(t *testing.T, out <-chan []byte, want string) {
	t.Helper()
	select {
	case data := <-out:
		if string(data) != want {
			t.Errorf("expected %q, got %q", want, data)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func TestFileWatcher_EmitsInitialContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sample.java")
	writeFile(t, path, "class A {}")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := preview.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out, "class A {}")
}

func TestFileWatcher_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sample.java")
	writeFile(t, path, "class A {}")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := preview.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out, "class A {}")

	writeFile(t, path, "class B {}")
	receive(t, out, "class B {}")
}

func TestFileWatcher_FollowsRenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Sample.java")
	writeFile(t, path, "v1")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := preview.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out, "v1")

	tmp := filepath.Join(dir, ".Sample.java.swp")
	writeFile(t, tmp, "v2")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	receive(t, out, "v2")
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Sample.java")
	writeFile(t, path, "watched")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := preview.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out, "watched")

	writeFile(t, filepath.Join(dir, "Other.java"), "other")

	select {
	case data := <-out:
		t.Errorf("unexpected emission %q", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "Sample.java")
	if _, err := preview.NewFileWatcher(path).Watch(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileWatcher_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sample.java")
	writeFile(t, path, "x")

	ctx, cancel := context.WithCancel(context.Background())
	out, err := preview.NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out, "x")
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
