//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/gqc/internal/config"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo on main with an initial commit in dir/name.
// Returns the absolute path to the created repo (with symlinks resolved).
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	dir = resolvePath(t, dir)
	repoPath := filepath.Join(dir, name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGitCommand(t, repoPath, "git", "init", "-b", "main")
	runGitCommand(t, repoPath, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "git", "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "git", "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGitCommand(t, repoPath, "git", "add", "README.md")
	runGitCommand(t, repoPath, "git", "commit", "-m", "Initial commit")

	return repoPath
}

// setupLocalOrigin clones repoPath into a bare repo inside originDir and
// adds it as origin. Returns the bare repo path.
func setupLocalOrigin(t *testing.T, repoPath, originDir string) string {
	t.Helper()

	if err := os.MkdirAll(originDir, 0755); err != nil {
		t.Fatalf("failed to create origin dir: %v", err)
	}
	originPath := filepath.Join(originDir, filepath.Base(repoPath)+".git")
	runGitCommand(t, originDir, "git", "clone", "--bare", repoPath, originPath)
	runGitCommand(t, repoPath, "git", "remote", "add", "origin", originPath)
	return originPath
}

// testEnv holds the command context and captured output of one test.
type testEnv struct {
	ctx context.Context
	out *bytes.Buffer
	log *bytes.Buffer
}

// testContext returns a context with a registry inside tmpDir, the given
// workspace directory and captured output.
func testContext(t *testing.T, tmpDir, workspaceDir string) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.RegistryPath = filepath.Join(tmpDir, ".gqc", "repos.json")
	cfg.WorkspaceDir = workspaceDir

	env := &testEnv{out: &bytes.Buffer{}, log: &bytes.Buffer{}}

	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(env.log, false, false))
	ctx = output.WithPrinter(ctx, env.out)
	ctx = config.WithConfig(ctx, &cfg)
	ctx = config.WithWorkDir(ctx, workspaceDir)
	ctx = withScope(ctx, scope{Dir: workspaceDir})
	env.ctx = ctx

	return env
}

// withFilter narrows the scope to registered repositories.
func (e *testEnv) withFilter(labels, repos []string) *testEnv {
	s := scopeFromContext(e.ctx)
	s.Labels, s.Repos = labels, repos
	e.ctx = withScope(e.ctx, s)
	return e
}

// currentBranch returns the checked out branch of repoPath.
func currentBranch(t *testing.T, repoPath string) string {
	t.Helper()
	return strings.TrimSpace(runGitCommand(t, repoPath, "git", "branch", "--show-current"))
}

// createBranch creates a branch (without checking it out)
func createBranch(t *testing.T, repoPath, branch string) {
	t.Helper()
	runGitCommand(t, repoPath, "git", "branch", branch)
}

// makeDirty creates an untracked file in the working copy.
func makeDirty(t *testing.T, repoPath string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, "dirty.txt"), []byte("uncommitted changes\n"), 0644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

// runGitCommand runs a git command and returns output
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
	return string(out)
}
