package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestKeyDerivation(t *testing.T) {
	base := Key("", "prompt")
	if base != Key("", "prompt") {
		t.Error("same input should derive the same key")
	}
	if base == Key("user@example.com", "prompt") {
		t.Error("user email must change the key")
	}
	if base == Key("", "other prompt") {
		t.Error("prompt must change the key")
	}
	if len(base) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(base))
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if entry, err := m.Get(ctx, "missing"); err != nil || entry != nil {
		t.Fatalf("Get(missing) = %v, %v", entry, err)
	}

	if err := m.Set(ctx, "k", Entry{Analysis: "hello", TotalTokens: 10}); err != nil {
		t.Fatal(err)
	}
	entry, err := m.Get(ctx, "k")
	if err != nil || entry == nil {
		t.Fatalf("Get(k) = %v, %v", entry, err)
	}
	if entry.Analysis != "hello" || entry.TotalTokens != 10 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Set should stamp CreatedAt")
	}
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", Entry{Analysis: "old"}); err != nil {
		t.Fatal(err)
	}

	// Just inside the window.
	now = now.Add(TTL - time.Minute)
	if entry, _ := m.Get(ctx, "k"); entry == nil {
		t.Fatal("entry should still be servable inside the TTL")
	}

	// Past the window: treated as absent.
	now = now.Add(2 * time.Minute)
	if entry, _ := m.Get(ctx, "k"); entry != nil {
		t.Error("expired entry should read as absent")
	}

	// The next write purges it for real.
	if err := m.Set(ctx, "other", Entry{Analysis: "new"}); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 1 {
		t.Errorf("Len = %d after purge, want 1", got)
	}
}

func TestMemoryEvictsOldestPastCap(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i <= MaxEntries; i++ {
		entry := Entry{Analysis: "a", CreatedAt: now.Add(time.Duration(i) * time.Second)}
		if err := m.Set(ctx, fmt.Sprintf("k%d", i), entry); err != nil {
			t.Fatal(err)
		}
	}

	if got := m.Len(); got != MaxEntries {
		t.Errorf("Len = %d, want %d", got, MaxEntries)
	}
	// k0 carried the oldest timestamp and should be the one evicted.
	if entry, _ := m.Get(ctx, "k0"); entry != nil {
		t.Error("oldest entry should have been evicted")
	}
	if entry, _ := m.Get(ctx, fmt.Sprintf("k%d", MaxEntries)); entry == nil {
		t.Error("newest entry should survive")
	}
}

func TestMemoryEvict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Set(ctx, "k", Entry{Analysis: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Evict(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if entry, _ := m.Get(ctx, "k"); entry != nil {
		t.Error("evicted entry should be gone")
	}
}
