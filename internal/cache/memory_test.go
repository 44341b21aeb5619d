package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	store.Set(ctx, "k", []byte("v"), time.Minute)
	value, ok := store.Get(ctx, "k")
	if !ok || string(value) != "v" {
		t.Errorf("expected hit with %q, got %q ok=%v", "v", value, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Error("expected miss after ttl")
	}

	store.Set(ctx, "zero", []byte("v"), 0)
	if _, ok := store.Get(ctx, "zero"); ok {
		t.Error("zero ttl must not store")
	}
}
