package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// GetRepoDisplayName returns the folder name of the repository.
func GetRepoDisplayName(repoPath string) string {
	return filepath.Base(filepath.Clean(repoPath))
}

// IsWorkingCopy reports whether path is the root of a git working copy,
// i.e. it contains a .git directory or a .git file (linked worktree or
// submodule).
func IsWorkingCopy(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// GetRepoRoot returns the top-level directory of the working copy containing path.
func GetRepoRoot(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// FindRepos returns the working copies making up the workspace at dir.
// If dir itself is a working copy it is the only result; otherwise every
// direct child that is a working copy is returned, sorted by name.
// Hidden directories are skipped.
func FindRepos(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if IsWorkingCopy(abs) {
		return []string{abs}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", abs, err)
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate := filepath.Join(abs, entry.Name())
		if IsWorkingCopy(candidate) {
			repos = append(repos, candidate)
		}
	}
	slices.Sort(repos)
	return repos, nil
}
