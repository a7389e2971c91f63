package moderation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/tree"
)

// Status is an article's place in the review workflow. The values are the
// hub API's wire strings; StatusDraft only ever exists client-side.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING_REVIEW"
	StatusPublished Status = "PUBLISHED"
	StatusRejected  Status = "REJECTED"
)

// IndexNode is one row of the content index screen: the tree node plus the
// workflow fields the moderation view shows. CanManage is the server's
// per-node verdict on whether this actor may approve, reject, or delete it.
type IndexNode struct {
	tree.Node
	Status    Status    `json:"status"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updatedAt"`
	CanManage bool      `json:"canManage"`
}

// IndexSource fetches content-index rows from the hub. A nil row means the
// node has no content-index entry.
type IndexSource interface {
	IndexEntry(ctx context.Context, id string) (*IndexNode, error)
}

// Actions are the mutations the hub API exposes per article.
type Actions interface {
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Notifier receives action outcomes for the toast feed.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Deindexer removes deleted articles from the search index.
type Deindexer interface {
	DeleteArticle(id string)
}

// Service runs bulk moderation actions. Each id succeeds or fails on its
// own; one failure never aborts the batch.
type Service struct {
	role    Role
	actions Actions
	index   IndexSource
	loader  *tree.Loader
	notify  Notifier
	search  Deindexer
}

// NewService wires a moderation service. notify and search may be nil; a nil
// index skips the per-node permission check and leaves only the role gate.
func NewService(role Role, actions Actions, index IndexSource, loader *tree.Loader, notify Notifier, search Deindexer) *Service {
	return &Service{role: role, actions: actions, index: index, loader: loader, notify: notify, search: search}
}

// BulkResult reports a batch outcome. Failed is keyed by id.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]error
}

// OK reports whether every id in the batch succeeded.
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0
}

// Index lists the content-index rows under a parent, one per child node.
// Children without a content-index entry still appear, with zero workflow
// fields and CanManage false.
func (s *Service) Index(ctx context.Context, parent tree.Node) ([]IndexNode, error) {
	if !Can(s.role, ActionRead) {
		return nil, fmt.Errorf("role %s may not read the content index", s.role)
	}
	if s.index == nil {
		return nil, fmt.Errorf("content index source not configured")
	}
	children, err := s.loader.Children(ctx, parent)
	if err != nil {
		return nil, err
	}
	rows := make([]IndexNode, 0, len(children))
	for _, child := range children {
		entry, err := s.index.IndexEntry(ctx, child.ID)
		if err != nil {
			return nil, fmt.Errorf("content index entry %s: %w", child.ID, err)
		}
		if entry == nil {
			rows = append(rows, IndexNode{Node: child})
			continue
		}
		rows = append(rows, *entry)
	}
	return rows, nil
}

// manageable checks the server's per-node verdict before a mutation runs.
func (s *Service) manageable(ctx context.Context, id string) error {
	if s.index == nil {
		return nil
	}
	entry, err := s.index.IndexEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("content index entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("no content index entry for %s", id)
	}
	if !entry.CanManage {
		return fmt.Errorf("not permitted to manage %s", id)
	}
	return nil
}

func (s *Service) runBulk(ctx context.Context, verb string, ids []string, fn func(context.Context, string) error) BulkResult {
	result := BulkResult{Failed: map[string]error{}}
	for _, id := range ids {
		if err := s.manageable(ctx, id); err != nil {
			log.Printf("moderation: %s %s: %v", verb, id, err)
			result.Failed[id] = err
			continue
		}
		if err := fn(ctx, id); err != nil {
			log.Printf("moderation: %s %s: %v", verb, id, err)
			result.Failed[id] = err
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		// The node's cached subtree is stale after any mutation.
		if err := s.loader.Invalidate(ctx, id); err != nil {
			log.Printf("moderation: invalidate cache for %s: %v", id, err)
		}
	}
	s.report(verb, result)
	return result
}

func (s *Service) report(verb string, result BulkResult) {
	if s.notify == nil {
		return
	}
	if n := len(result.Succeeded); n > 0 {
		s.notify.Success(fmt.Sprintf("%s: %d article(s)", verb, n))
	}
	for id, err := range result.Failed {
		s.notify.Failure(fmt.Sprintf("%s %s failed: %v", verb, id, err))
	}
}

// Approve publishes each pending article in the batch.
func (s *Service) Approve(ctx context.Context, ids []string) (BulkResult, error) {
	if !Can(s.role, ActionApprove) {
		return BulkResult{}, fmt.Errorf("role %s may not approve", s.role)
	}
	return s.runBulk(ctx, "approve", ids, s.actions.Approve), nil
}

// Reject returns each pending article in the batch to its author.
func (s *Service) Reject(ctx context.Context, ids []string) (BulkResult, error) {
	if !Can(s.role, ActionApprove) {
		return BulkResult{}, fmt.Errorf("role %s may not reject", s.role)
	}
	return s.runBulk(ctx, "reject", ids, s.actions.Reject), nil
}

// Delete removes each article in the batch, dropping it from the search
// index as it goes.
func (s *Service) Delete(ctx context.Context, ids []string) (BulkResult, error) {
	if !Can(s.role, ActionDelete) {
		return BulkResult{}, fmt.Errorf("role %s may not delete", s.role)
	}
	result := s.runBulk(ctx, "delete", ids, s.actions.Delete)
	if s.search != nil {
		for _, id := range result.Succeeded {
			s.search.DeleteArticle(id)
		}
	}
	return result, nil
}
