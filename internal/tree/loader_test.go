package tree

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	children map[string][]Node
	calls    map[string]int
	fail     map[string]bool
}

func newCountingSource() *countingSource {
	return &countingSource{
		children: make(map[string][]Node),
		calls:    make(map[string]int),
		fail:     make(map[string]bool),
	}
}

func (s *countingSource) Children(_ context.Context, parentID string) ([]Node, error) {
	s.calls[parentID]++
	if s.fail[parentID] {
		return nil, errors.New("upstream unavailable")
	}
	return s.children[parentID], nil
}

func TestLoaderNeverFetchesLeaves(t *testing.T) {
	source := newCountingSource()
	loader := NewLoader(source, NewMemoryStore(0))

	leaf := Node{ID: "leaf-1", Title: "Leaf", HasChildren: false}
	children, err := loader.Children(context.Background(), leaf)
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("expected no children for leaf, got %d", len(children))
	}
	if source.calls["leaf-1"] != 0 {
		t.Errorf("expected 0 fetches for leaf, got %d", source.calls["leaf-1"])
	}
}

func TestLoaderCachesChildren(t *testing.T) {
	source := newCountingSource()
	source.children["root"] = []Node{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}
	loader := NewLoader(source, NewMemoryStore(0))
	root := Node{ID: "root", Title: "Root", HasChildren: true}

	ctx := context.Background()
	first, err := loader.Children(ctx, root)
	if err != nil {
		t.Fatalf("first Children failed: %v", err)
	}
	second, err := loader.Children(ctx, root)
	if err != nil {
		t.Fatalf("second Children failed: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 children both times, got %d and %d", len(first), len(second))
	}
	if source.calls["root"] != 1 {
		t.Errorf("expected 1 fetch, got %d", source.calls["root"])
	}
}

func TestLoaderRefetchesAfterFreshnessWindow(t *testing.T) {
	source := newCountingSource()
	source.children["root"] = []Node{{ID: "a", Title: "A"}}

	store := NewMemoryStore(5 * time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	loader := NewLoader(source, store)
	root := Node{ID: "root", HasChildren: true}
	ctx := context.Background()

	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("Children failed: %v", err)
	}

	current = current.Add(4 * time.Minute)
	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("Children inside window failed: %v", err)
	}
	if source.calls["root"] != 1 {
		t.Fatalf("expected cache hit inside window, got %d fetches", source.calls["root"])
	}

	current = current.Add(2 * time.Minute)
	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("Children after window failed: %v", err)
	}
	if source.calls["root"] != 2 {
		t.Errorf("expected refetch after window, got %d fetches", source.calls["root"])
	}
}

func TestLoaderErrorCachesNothing(t *testing.T) {
	source := newCountingSource()
	source.fail["root"] = true
	loader := NewLoader(source, NewMemoryStore(0))
	root := Node{ID: "root", HasChildren: true}
	ctx := context.Background()

	if _, err := loader.Children(ctx, root); err == nil {
		t.Fatal("expected error from failing source")
	}

	// A later expand retries instead of serving a poisoned entry.
	source.fail["root"] = false
	source.children["root"] = []Node{{ID: "a"}}
	children, err := loader.Children(ctx, root)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(children) != 1 {
		t.Errorf("expected 1 child after retry, got %d", len(children))
	}
	if source.calls["root"] != 2 {
		t.Errorf("expected 2 fetches, got %d", source.calls["root"])
	}
}

func TestLoaderEmptyChildListIsCached(t *testing.T) {
	source := newCountingSource()
	source.children["root"] = []Node{}
	loader := NewLoader(source, NewMemoryStore(0))
	root := Node{ID: "root", HasChildren: true}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		children, err := loader.Children(ctx, root)
		if err != nil {
			t.Fatalf("Children failed: %v", err)
		}
		if len(children) != 0 {
			t.Errorf("expected empty child list, got %d", len(children))
		}
	}
	if source.calls["root"] != 1 {
		t.Errorf("expected empty result to be cached, got %d fetches", source.calls["root"])
	}
}

func TestLoadedDescendantsStopsAtUnloadedNodes(t *testing.T) {
	source := newCountingSource()
	source.children["root"] = []Node{
		{ID: "a", HasChildren: true},
		{ID: "b", HasChildren: false},
	}
	source.children["a"] = []Node{{ID: "a1"}, {ID: "a2"}}

	loader := NewLoader(source, NewMemoryStore(0))
	root := Node{ID: "root", HasChildren: true}
	ctx := context.Background()

	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("expand root failed: %v", err)
	}

	// "a" not yet expanded: its children are invisible to the walk.
	got := loader.LoadedDescendants(ctx, root)
	if len(got) != 2 {
		t.Fatalf("expected [a b], got %v", got)
	}

	if _, err := loader.Children(ctx, Node{ID: "a", HasChildren: true}); err != nil {
		t.Fatalf("expand a failed: %v", err)
	}
	got = loader.LoadedDescendants(ctx, root)
	if len(got) != 4 {
		t.Errorf("expected 4 loaded descendants after expanding a, got %v", got)
	}
}

func TestLoaderInvalidateForcesRefetch(t *testing.T) {
	source := newCountingSource()
	source.children["root"] = []Node{{ID: "a"}}
	loader := NewLoader(source, NewMemoryStore(0))
	root := Node{ID: "root", HasChildren: true}
	ctx := context.Background()

	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if err := loader.Invalidate(ctx, "root"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := loader.Children(ctx, root); err != nil {
		t.Fatalf("Children after invalidate failed: %v", err)
	}
	if source.calls["root"] != 2 {
		t.Errorf("expected refetch after invalidate, got %d fetches", source.calls["root"])
	}
}
