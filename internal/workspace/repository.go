package workspace

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gqc/internal/git"
)

// Repository is a snapshot of one working copy taken when the inventory was
// listed. Mutations go through the backend it was read with.
type Repository struct {
	Name  string    // identifying name, unique within a workspace
	Path  string    // working copy root
	Head  string    // checked out branch, "" when detached
	Refs  []git.Ref // raw refs
	Dirty bool      // uncommitted changes or untracked files

	backend git.Backend
}

// NewRepository returns a repository handle without reading its state.
// An empty name defaults to the last path segment.
func NewRepository(name, path string, backend git.Backend) *Repository {
	if name == "" {
		name = git.GetRepoDisplayName(path)
	}
	return &Repository{Name: name, Path: path, backend: backend}
}

// Backend returns the backend used to read and mutate the repository.
func (r *Repository) Backend() git.Backend {
	return r.backend
}

// Refresh re-reads head, refs and dirtiness.
func (r *Repository) Refresh(ctx context.Context) error {
	head, err := r.backend.Head(ctx, r.Path)
	if err != nil {
		return err
	}
	refs, err := r.backend.Refs(ctx, r.Path)
	if err != nil {
		return err
	}
	dirty, err := r.backend.IsDirty(ctx, r.Path)
	if err != nil {
		return err
	}
	r.Head, r.Refs, r.Dirty = head, refs, dirty
	return nil
}

// RepoRef identifies a repository for the inventory.
// Keeps the workspace package independent of the registry package.
type RepoRef struct {
	Name string
	Path string
}

// LoadWarning represents a non-fatal error encountered while reading a repository.
type LoadWarning struct {
	RepoName string
	Path     string
	Err      error
}

func (w LoadWarning) Error() string {
	return fmt.Sprintf("%s (%s): %v", w.RepoName, w.Path, w.Err)
}

// maxConcurrentLoads bounds concurrent git reads while snapshotting.
const maxConcurrentLoads = 8

// ListRepositories snapshots every referenced repository in parallel.
// Results keep the order of refs. A repository that cannot be read is left
// out and reported as a warning; the call itself never fails, so an
// unavailable host yields an empty inventory.
func ListRepositories(ctx context.Context, refs []RepoRef, backend git.Backend) ([]*Repository, []LoadWarning) {
	type loadResult struct {
		repo    *Repository
		warning *LoadWarning
	}

	results := make([]loadResult, len(refs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)

	for i, ref := range refs {
		g.Go(func() error {
			repo := NewRepository(ref.Name, ref.Path, backend)
			if err := repo.Refresh(ctx); err != nil {
				results[i] = loadResult{warning: &LoadWarning{RepoName: repo.Name, Path: repo.Path, Err: err}}
				return nil
			}
			results[i] = loadResult{repo: repo}
			return nil
		})
	}

	_ = g.Wait()

	var repos []*Repository
	var warnings []LoadWarning
	for _, r := range results {
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
			continue
		}
		repos = append(repos, r.repo)
	}
	return repos, warnings
}

// ScanWorkspace returns refs for the working copies found in dir
// (see [git.FindRepos]).
func ScanWorkspace(dir string) ([]RepoRef, error) {
	paths, err := git.FindRepos(dir)
	if err != nil {
		return nil, err
	}
	refs := make([]RepoRef, len(paths))
	for i, p := range paths {
		refs[i] = RepoRef{Name: git.GetRepoDisplayName(p), Path: p}
	}
	return refs, nil
}
