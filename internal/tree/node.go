// Package tree implements the lazily loaded content tree: a per-node child
// loader with a TTL cache, and the tri-state selection engine used by the
// bulk moderation screens.
package tree

// Node is one entry in the hierarchical content structure: a category or a
// leaf article. HasChildren comes from the server so the client never has to
// fetch just to learn whether a node is expandable.
type Node struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	HasChildren bool   `json:"hasChildren"`
}
