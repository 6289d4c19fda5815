package git

import (
	"context"
	"errors"
	"fmt"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/raphi011/gqc/internal/log"
)

type nativeBackend struct{}

// NewNative returns a Backend implemented with go-git.
// It does not need a git executable but ignores git hooks and most of the
// user's git configuration.
func NewNative() Backend {
	return nativeBackend{}
}

func (nativeBackend) Name() string { return BackendNative }

func openRepo(path string) (*gitlib.Repository, error) {
	repo, err := gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return repo, nil
}

func remoteNames(repo *gitlib.Repository) ([]string, error) {
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	return names, nil
}

func (nativeBackend) Head(ctx context.Context, path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD is symbolic but its target has no commit yet.
		sym, symErr := repo.Storer.Reference(plumbing.HEAD)
		if symErr != nil {
			return "", fmt.Errorf("failed to get branch: %w", symErr)
		}
		if sym.Type() == plumbing.SymbolicReference && sym.Target().IsBranch() {
			return sym.Target().Short(), nil
		}
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

func (nativeBackend) Refs(ctx context.Context, path string) ([]Ref, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	remotes, err := remoteNames(repo)
	if err != nil {
		return nil, err
	}

	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list refs: %w", err)
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() && !name.IsTag() {
			return nil
		}
		refs = append(refs, ParseRefName(name.String(), remotes))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list refs: %w", err)
	}
	return refs, nil
}

func (nativeBackend) IsDirty(ctx context.Context, path string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return !status.IsClean(), nil
}

func (nativeBackend) Checkout(ctx context.Context, path, name string) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	local := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(local, true); err == nil {
		if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: local}); err != nil {
			return fmt.Errorf("failed to checkout %s: %w", name, err)
		}
		return nil
	}

	// Same guess as `git switch`: exactly one remote must have the branch.
	remotes, err := remoteNames(repo)
	if err != nil {
		return err
	}
	var (
		match      *plumbing.Reference
		matchedVia string
	)
	for _, remote := range remotes {
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName(remote, name), true)
		if err != nil {
			continue
		}
		if match != nil {
			return fmt.Errorf("failed to checkout %s: matches remote-tracking branches on %s and %s", name, matchedVia, remote)
		}
		match, matchedVia = ref, remote
	}
	if match == nil {
		return fmt.Errorf("failed to checkout %s: no such branch", name)
	}

	log.FromContext(ctx).Debug("creating tracking branch", "path", path, "branch", name, "remote", matchedVia)
	if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: local, Hash: match.Hash(), Create: true}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	if err := repo.CreateBranch(&gitconfig.Branch{Name: name, Remote: matchedVia, Merge: local}); err != nil {
		return fmt.Errorf("failed to set upstream for %s: %w", name, err)
	}
	return nil
}

func (nativeBackend) CreateBranch(ctx context.Context, path, name string, checkout bool) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}

	local := plumbing.NewBranchReferenceName(name)
	if _, err := repo.Reference(local, false); err == nil {
		return fmt.Errorf("failed to create branch %s: a branch named %q already exists", name, name)
	}

	if checkout {
		wt, err := repo.Worktree()
		if err != nil {
			return err
		}
		if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: local, Create: true, Keep: true}); err != nil {
			return fmt.Errorf("failed to create branch %s: %w", name, err)
		}
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(local, head.Hash())); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

func (nativeBackend) Fetch(ctx context.Context, path string, opts FetchOptions) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}
	remotes, err := remoteNames(repo)
	if err != nil {
		return err
	}
	if len(remotes) == 0 {
		return nil
	}
	if !opts.AllRemotes {
		remotes = []string{defaultRemote(remotes)}
	}

	for _, remote := range remotes {
		done := log.FromContext(ctx).Command(path, "go-git", "fetch", remote)
		start := time.Now()
		err := repo.FetchContext(ctx, &gitlib.FetchOptions{RemoteName: remote, Prune: opts.Prune})
		done(time.Since(start))
		if err != nil && !errors.Is(err, gitlib.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to fetch %s: %w", remote, err)
		}
	}
	return nil
}
