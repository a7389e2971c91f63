// Package mirror maintains a local git repository holding a Markdown copy of
// every exported article, one file per article with full commit history.
package mirror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitInfo is one entry of the mirror's history.
type CommitInfo struct {
	Hash      string
	Message   string
	Author    string
	CreatedAt time.Time
}

// Service wraps the single mirror repository. All operations serialize on
// one lock; the worktree cannot take concurrent checkouts.
type Service struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Service {
	return &Service{dir: dir}
}

// Ensure initializes the mirror repository if it does not exist yet, with an
// empty baseline commit on main.
func (s *Service) Ensure(author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(author)
}

func (s *Service) ensureLocked(author string) error {
	if _, err := os.Stat(filepath.Join(s.dir, ".git")); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat mirror dir: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create mirror dir: %w", err)
	}

	repo, err := git.PlainInit(s.dir, false)
	if err != nil {
		return fmt.Errorf("init mirror repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	readme := []byte("# Knowledge Hub mirror\n\nMarkdown copies of published articles.\n")
	if err := os.WriteFile(filepath.Join(s.dir, "README.md"), readme, 0o644); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}
	if _, err := worktree.Add("README.md"); err != nil {
		return fmt.Errorf("git add readme: %w", err)
	}
	hash, err := worktree.Commit("Initialize article mirror", &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return fmt.Errorf("commit baseline: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)); err != nil {
		return fmt.Errorf("set main branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return fmt.Errorf("set HEAD to main: %w", err)
	}
	return nil
}

// WriteArticle commits a Markdown snapshot of one article.
func (s *Service) WriteArticle(articleID string, markdown []byte, author, message string) (CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(author); err != nil {
		return CommitInfo{}, err
	}
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open mirror repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	rel := articlePath(articleID)
	abs := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return CommitInfo{}, fmt.Errorf("create articles dir: %w", err)
	}
	if err := os.WriteFile(abs, markdown, 0o644); err != nil {
		return CommitInfo{}, fmt.Errorf("write article file: %w", err)
	}
	if _, err := worktree.Add(rel); err != nil {
		return CommitInfo{}, fmt.Errorf("git add article: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{Author: signature(author)})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit article: %w", err)
	}
	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// RemoveArticle commits the removal of one article's file. Removing an
// article that was never mirrored is a no-op.
func (s *Service) RemoveArticle(articleID, author, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return fmt.Errorf("open mirror repo: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	rel := articlePath(articleID)
	if _, err := os.Stat(filepath.Join(s.dir, rel)); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := worktree.Remove(rel); err != nil {
		return fmt.Errorf("git rm article: %w", err)
	}
	if _, err := worktree.Commit(message, &git.CommitOptions{Author: signature(author)}); err != nil {
		return fmt.Errorf("commit removal: %w", err)
	}
	return nil
}

// HeadArticle returns the mirrored Markdown at HEAD.
func (s *Service) HeadArticle(articleID string) ([]byte, CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("open mirror repo: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("resolve head: %w", err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("load head commit: %w", err)
	}

	file, err := commitObj.File(articlePath(articleID))
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("article %s not in mirror: %w", articleID, err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("open article reader: %w", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, CommitInfo{}, fmt.Errorf("read article bytes: %w", err)
	}
	return data, toCommitInfo(commitObj), nil
}

// History lists the newest commits first, up to limit (0 = all).
func (s *Service) History(limit int) ([]CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return nil, fmt.Errorf("open mirror repo: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func articlePath(articleID string) string {
	safe := make([]rune, 0, len(articleID))
	for _, r := range articleID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			safe = append(safe, r)
		default:
			safe = append(safe, '-')
		}
	}
	if len(safe) == 0 {
		safe = []rune("article")
	}
	return filepath.Join("articles", string(safe)+".md")
}

func signature(author string) *object.Signature {
	if author == "" {
		author = "knowledge-hub"
	}
	return &object.Signature{
		Name:  author,
		Email: fmt.Sprintf("%s@mirror.local", sanitizeEmail(author)),
		When:  time.Now(),
	}
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func sanitizeEmail(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			out = append(out, '.')
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}
