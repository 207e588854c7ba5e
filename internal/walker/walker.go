// Package walker produces a flat list of every file in a remote repository by
// recursive directory traversal through a content store.
package walker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stackgrade/stackgrade/internal/contentstore"
	"github.com/stackgrade/stackgrade/internal/schema"
)

// ErrNotFound is returned when the repository or its root path does not exist.
var ErrNotFound = errors.New("walker: repository not found")

// Default traversal ceilings. The remote store imposes none of its own, so
// every walk is bounded here.
const (
	DefaultMaxDepth    = 20
	DefaultMaxFiles    = 2000
	DefaultMaxFileSize = 1 << 20 // 1 MB
	DefaultConcurrency = 8
)

// Walker lists repository files through a content store. Sibling entries are
// processed concurrently; each branch collects into its own slice and the
// branches are merged afterwards, so output order is unspecified and callers
// must not rely on it.
type Walker struct {
	store contentstore.Store

	// MaxDepth prunes directories nested deeper than this many levels below
	// the root. MaxFiles stops collection once that many files have been
	// fetched. Files larger than MaxFileSize are skipped without fetching.
	MaxDepth    int
	MaxFiles    int
	MaxFileSize int64
	Concurrency int
}

// New creates a Walker with default ceilings.
func New(store contentstore.Store) *Walker {
	return &Walker{
		store:       store,
		MaxDepth:    DefaultMaxDepth,
		MaxFiles:    DefaultMaxFiles,
		MaxFileSize: DefaultMaxFileSize,
		Concurrency: DefaultConcurrency,
	}
}

// ListFiles walks the repository from its root and returns every file as a
// (path, name, content) triple. A fetch failure on an individual file is
// logged and that file dropped; a missing repository fails the whole walk
// with ErrNotFound.
func (w *Walker) ListFiles(ctx context.Context, owner, repo string) ([]schema.RepoFile, error) {
	var fetched atomic.Int64
	files, err := w.walk(ctx, owner, repo, "", 0, &fetched)
	if err != nil {
		if errors.Is(err, contentstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, repo)
		}
		return nil, err
	}
	return files, nil
}

// walk lists one directory and recurses into subdirectories. Each entry is
// handled on its own goroutine writing to a dedicated result slot; the slots
// are merged after the group finishes.
func (w *Walker) walk(ctx context.Context, owner, repo, path string, depth int, fetched *atomic.Int64) ([]schema.RepoFile, error) {
	entries, err := w.store.ListDirectory(ctx, owner, repo, path)
	if err != nil {
		return nil, err
	}

	results := make([][]schema.RepoFile, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.Concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			switch entry.Type {
			case contentstore.EntryDir:
				if depth >= w.MaxDepth {
					logrus.WithField("path", entry.Path).Warn("walker: max depth reached, pruning directory")
					return nil
				}
				sub, err := w.walk(ctx, owner, repo, entry.Path, depth+1, fetched)
				if err != nil {
					// A directory that vanished mid-walk is dropped like a
					// failed file fetch; other errors abort the traversal.
					if errors.Is(err, contentstore.ErrNotFound) {
						logrus.WithField("path", entry.Path).Warn("walker: directory disappeared during walk")
						return nil
					}
					return err
				}
				results[i] = sub

			case contentstore.EntryFile:
				if entry.Size > w.MaxFileSize {
					logrus.WithFields(logrus.Fields{
						"path": entry.Path,
						"size": entry.Size,
					}).Debug("walker: skipping oversized file")
					return nil
				}
				if fetched.Load() >= int64(w.MaxFiles) {
					return nil
				}
				content, err := w.store.GetFile(ctx, owner, repo, entry.Path)
				if err != nil {
					// Partial-failure tolerance: drop the file, keep walking.
					logrus.WithError(err).WithField("path", entry.Path).Warn("walker: failed to fetch file")
					return nil
				}
				fetched.Add(1)
				results[i] = []schema.RepoFile{{
					Path:    entry.Path,
					Name:    entry.Name,
					Content: content,
				}}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []schema.RepoFile
	for _, branch := range results {
		merged = append(merged, branch...)
	}
	return merged, nil
}
