// Package search provides full-text article search: a Meilisearch index when
// one is configured, with the portal's own search endpoint as fallback.
package search

import "context"

// Result is a single article hit returned to the caller.
type Result struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Status  string   `json:"status,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text         string
	FilterStatus string // empty = all statuses
	FilterTag    string
	Limit        int
	Offset       int
}

// Response is the envelope returned to the caller.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher is a search engine the service can query and maintain. Meili
// satisfies it; tests substitute their own.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, int, error)
	Healthy() bool
	IndexArticle(a ArticleRecord) error
	IndexArticles(articles []ArticleRecord) error
	DeleteArticle(id string) error
}

// Fallback answers queries when no index is reachable, typically backed by
// the hub API's search endpoint.
type Fallback interface {
	Search(ctx context.Context, q Query) ([]Result, int, error)
}

// ArticleRecord is the data we index per article.
type ArticleRecord struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
	Author  string   `json:"author"`
	Updated int64    `json:"updated"`
}
