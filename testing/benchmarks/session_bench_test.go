package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/zoobzio/preview"
)

func BenchmarkSession_RequestSync(b *testing.B) {
	s := preview.New(preview.NewStore(), preview.Identity, preview.NewDisplay()).
		SyncMode().
		Diagnostics(&preview.LevelVar{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		b.Fatalf("Start() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Request("class A {}", preview.CategoryBraces); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSession_RequestAsync(b *testing.B) {
	s := preview.New(preview.NewStore(), preview.Identity, preview.NewDisplay()).
		Diagnostics(&preview.LevelVar{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		b.Fatalf("Start() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Request(fmt.Sprintf("class A%d {}", i), preview.CategoryGeneral); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	if err := s.Drain(context.Background()); err != nil {
		b.Fatal(err)
	}
}

func BenchmarkStore_CheckpointRollback(b *testing.B) {
	store := preview.NewStore()
	for i := 0; i < 64; i++ {
		store.Set(fmt.Sprintf("setting.%d", i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cp := store.Checkpoint()
		store.Apply(preview.DeriveOverrides(preview.CategoryHeader))
		if err := store.Rollback(cp); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeriveOverrides(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = preview.DeriveOverrides(preview.CategoryJavadoc)
	}
}
