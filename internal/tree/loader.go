package tree

import (
	"context"
	"fmt"
)

// ChildSource fetches the immediate children of a node from the portal API.
type ChildSource interface {
	Children(ctx context.Context, parentID string) ([]Node, error)
}

// Loader serves child lists on demand. A node with HasChildren false never
// reaches the source or the cache; everything else is fetched once and served
// from the cache until the freshness window lapses. Fetch failures propagate
// to the caller and cache nothing, so the next expand retries.
type Loader struct {
	source ChildSource
	cache  CacheStore
}

func NewLoader(source ChildSource, cache CacheStore) *Loader {
	return &Loader{source: source, cache: cache}
}

// Children returns the immediate children of node, fetching only on a cache
// miss. Sibling expansions are independent: one fetch per node id, no
// coalescing.
func (l *Loader) Children(ctx context.Context, node Node) ([]Node, error) {
	if !node.HasChildren {
		return []Node{}, nil
	}

	cached, ok, err := l.cache.Get(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("read child cache for %s: %w", node.ID, err)
	}
	if ok {
		return cached, nil
	}

	children, err := l.source.Children(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch children of %s: %w", node.ID, err)
	}
	if children == nil {
		children = []Node{}
	}
	if err := l.cache.Set(ctx, node.ID, children); err != nil {
		return nil, fmt.Errorf("cache children of %s: %w", node.ID, err)
	}
	return children, nil
}

// Loaded returns the cached children of a node without ever fetching.
// The bool reports whether a fresh entry exists.
func (l *Loader) Loaded(ctx context.Context, nodeID string) ([]Node, bool) {
	cached, ok, err := l.cache.Get(ctx, nodeID)
	if err != nil || !ok {
		return nil, false
	}
	return cached, true
}

// LoadedDescendants collects the ids of every descendant of node that is
// currently present in the cache. Subtrees behind an unloaded node are not
// visited; that gap is what the indeterminate selection state papers over.
func (l *Loader) LoadedDescendants(ctx context.Context, node Node) []string {
	var ids []string
	l.collectLoaded(ctx, node, &ids)
	return ids
}

func (l *Loader) collectLoaded(ctx context.Context, node Node, ids *[]string) {
	if !node.HasChildren {
		return
	}
	children, ok := l.Loaded(ctx, node.ID)
	if !ok {
		return
	}
	for _, child := range children {
		*ids = append(*ids, child.ID)
		l.collectLoaded(ctx, child, ids)
	}
}

// Invalidate drops the cached children of a node, forcing a refetch on the
// next expand. Used after moderation mutations.
func (l *Loader) Invalidate(ctx context.Context, nodeID string) error {
	return l.cache.Invalidate(ctx, nodeID)
}
