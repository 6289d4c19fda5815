package git

import (
	"context"
	"fmt"
	"strings"
)

type cliBackend struct{}

// NewCLI returns a Backend that shells out to git.
// Shelling out keeps user configuration (SSH keys, credential helpers,
// hooks) in effect for fetch and checkout.
func NewCLI() Backend {
	return cliBackend{}
}

func (cliBackend) Name() string { return BackendCLI }

func (cliBackend) Head(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (b cliBackend) Refs(ctx context.Context, path string) ([]Ref, error) {
	remotes, err := b.remotes(ctx, path)
	if err != nil {
		return nil, err
	}

	output, err := outputGit(ctx, path, "for-each-ref", "--format=%(refname)", "refs/heads", "refs/remotes", "refs/tags")
	if err != nil {
		return nil, fmt.Errorf("failed to list refs: %w", err)
	}

	var refs []Ref
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, ParseRefName(line, remotes))
	}
	return refs, nil
}

func (cliBackend) remotes(ctx context.Context, path string) ([]string, error) {
	output, err := outputGit(ctx, path, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	return strings.Fields(string(output)), nil
}

func (cliBackend) IsDirty(ctx context.Context, path string) (bool, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

func (cliBackend) Checkout(ctx context.Context, path, name string) error {
	// switch never interprets name as a pathspec and guesses a tracking
	// branch from a unique remote head.
	if err := runGit(ctx, path, "switch", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

func (cliBackend) CreateBranch(ctx context.Context, path, name string, checkout bool) error {
	var err error
	if checkout {
		err = runGit(ctx, path, "switch", "-c", name)
	} else {
		err = runGit(ctx, path, "branch", name)
	}
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

func (b cliBackend) Fetch(ctx context.Context, path string, opts FetchOptions) error {
	remotes, err := b.remotes(ctx, path)
	if err != nil {
		return err
	}
	if len(remotes) == 0 {
		return nil
	}

	args := []string{"fetch", "--quiet"}
	if opts.AllRemotes {
		args = append(args, "--all")
	}
	if opts.Prune {
		args = append(args, "--prune")
	}
	if !opts.AllRemotes {
		args = append(args, defaultRemote(remotes))
	}
	if err := runGit(ctx, path, args...); err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}
