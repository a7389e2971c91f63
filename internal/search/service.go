package search

import (
	"context"
	"log"
)

// Service is the facade that tries the search engine first and falls back to
// the hub API's search endpoint.
type Service struct {
	engine   Searcher
	fallback Fallback
}

// NewService creates a search service. engine may be nil when no search
// engine is configured.
func NewService(engine Searcher, fallback Fallback) *Service {
	return &Service{engine: engine, fallback: fallback}
}

// Search tries the engine if healthy, otherwise the fallback. A failing
// fallback yields an empty response rather than an error; search degrades,
// it does not break the page.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.engine != nil && s.engine.Healthy() {
		results, total, err := s.engine.Search(ctx, q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: engine error, falling back to hub api: %v", err)
	}

	if s.fallback == nil {
		return Response{Results: []Result{}, Query: q.Text}
	}
	results, total, err := s.fallback.Search(ctx, q)
	if err != nil {
		log.Printf("search: fallback error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexArticle pushes one article into the index, fire-and-forget.
func (s *Service) IndexArticle(a ArticleRecord) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	go func() {
		if err := s.engine.IndexArticle(a); err != nil {
			log.Printf("search: index article %s: %v", a.ID, err)
		}
	}()
}

// DeleteArticle removes an article from the index, fire-and-forget.
func (s *Service) DeleteArticle(id string) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	go func() {
		if err := s.engine.DeleteArticle(id); err != nil {
			log.Printf("search: delete article %s: %v", id, err)
		}
	}()
}

// ReindexAll bulk-pushes articles into the index, typically at startup.
func (s *Service) ReindexAll(articles []ArticleRecord) {
	if s.engine == nil || !s.engine.Healthy() {
		return
	}
	if err := s.engine.IndexArticles(articles); err != nil {
		log.Printf("search: reindex articles: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
