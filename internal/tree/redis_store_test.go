package tree

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), 5*time.Minute)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestRedisStoreSetAndGet(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	children := []Node{
		{ID: "a", Title: "Alpha", HasChildren: true},
		{ID: "b", Title: "Beta"},
	}

	if err := store.Set(ctx, "root", children); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "root")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].ID != "a" || !got[0].HasChildren {
		t.Errorf("unexpected cached children: %+v", got)
	}
}

func TestRedisStoreMiss(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	_, ok, err := store.Get(context.Background(), "never-set")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown parent id")
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()
	store, err := NewRedisStore("redis://"+s.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "root", []Node{{ID: "a"}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "root")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected entry to expire after freshness window")
	}
}

func TestRedisStoreInvalidate(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "root", []Node{{ID: "a"}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Invalidate(ctx, "root"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	_, ok, err := store.Get(ctx, "root")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss after invalidate")
	}
}

func TestRedisStoreEmptyChildList(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "root", []Node{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "root")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit for cached empty list")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil child list, got %v", got)
	}
}
