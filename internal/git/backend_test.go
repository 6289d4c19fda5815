package git

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

var testBackends = []Backend{NewCLI(), NewNative()}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", BackendCLI, false},
		{"cli", BackendCLI, false},
		{"native", BackendNative, false},
		{"libgit2", "", true},
	}
	for _, tt := range tests {
		b, err := NewBackend(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewBackend(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && b.Name() != tt.want {
			t.Errorf("NewBackend(%q).Name() = %q, want %q", tt.name, b.Name(), tt.want)
		}
	}
}

func normalizedNames(refs []Ref) []string {
	var names []string
	for _, ref := range refs {
		if ref.Kind == RefKindOther {
			continue
		}
		names = append(names, ref.Kind.String()+":"+ref.Name)
	}
	slices.Sort(names)
	return names
}

func TestBackend_HeadAndRefs(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			repo, _ := setupTestRepoWithOrigin(t)
			if err := runGit(ctx, repo, "tag", "v1.0.0"); err != nil {
				t.Fatal(err)
			}

			head, err := b.Head(ctx, repo)
			if err != nil {
				t.Fatalf("Head() error = %v", err)
			}
			if head != "main" {
				t.Errorf("Head() = %q, want %q", head, "main")
			}

			refs, err := b.Refs(ctx, repo)
			if err != nil {
				t.Fatalf("Refs() error = %v", err)
			}
			got := normalizedNames(refs)
			assertContains(t, got, "local:main", "remote:origin/main", "remote:origin/feature")
			if slices.Contains(got, "local:feature") {
				t.Errorf("Refs() = %v, feature should only exist on origin", got)
			}

			var sawTag bool
			for _, ref := range refs {
				if ref.Kind == RefKindRemoteHead && ref.Remote != "origin" {
					t.Errorf("remote head %q has remote %q, want origin", ref.Name, ref.Remote)
				}
				if ref.Kind == RefKindOther && strings.Contains(ref.Name, "v1.0.0") {
					sawTag = true
				}
			}
			if !sawTag {
				t.Errorf("Refs() = %+v, want tag v1.0.0 reported as other", refs)
			}
		})
	}
}

func TestBackend_HeadDetached(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			repo := setupTestRepo(t)
			if err := runGit(ctx, repo, "switch", "--detach", "HEAD"); err != nil {
				t.Fatal(err)
			}
			head, err := b.Head(ctx, repo)
			if err != nil {
				t.Fatalf("Head() error = %v", err)
			}
			if head != "" {
				t.Errorf("Head() = %q, want empty for detached HEAD", head)
			}
		})
	}
}

func TestBackend_IsDirty(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			repo := setupTestRepo(t)

			dirty, err := b.IsDirty(ctx, repo)
			if err != nil {
				t.Fatalf("IsDirty() error = %v", err)
			}
			if dirty {
				t.Error("IsDirty() = true for fresh repo, want false")
			}

			if err := os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("wip\n"), 0644); err != nil {
				t.Fatal(err)
			}
			dirty, err = b.IsDirty(ctx, repo)
			if err != nil {
				t.Fatalf("IsDirty() error = %v", err)
			}
			if !dirty {
				t.Error("IsDirty() = false with untracked file, want true")
			}
		})
	}
}

func TestBackend_Checkout(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			repo, _ := setupTestRepoWithOrigin(t)

			// remote-only branch gets a local tracking branch
			if err := b.Checkout(ctx, repo, "feature"); err != nil {
				t.Fatalf("Checkout(feature) error = %v", err)
			}
			if head, _ := b.Head(ctx, repo); head != "feature" {
				t.Errorf("Head() after checkout = %q, want feature", head)
			}
			if _, err := os.Stat(filepath.Join(repo, "feature.txt")); err != nil {
				t.Errorf("feature.txt missing after checkout: %v", err)
			}
			upstream, err := outputGit(ctx, repo, "config", "branch.feature.remote")
			if err != nil || strings.TrimSpace(string(upstream)) != "origin" {
				t.Errorf("branch.feature.remote = %q (%v), want origin", upstream, err)
			}

			// existing local branch
			if err := b.Checkout(ctx, repo, "main"); err != nil {
				t.Fatalf("Checkout(main) error = %v", err)
			}
			if head, _ := b.Head(ctx, repo); head != "main" {
				t.Errorf("Head() after checkout = %q, want main", head)
			}

			if err := b.Checkout(ctx, repo, "does-not-exist"); err == nil {
				t.Error("Checkout(does-not-exist) = nil, want error")
			}
		})
	}
}

func TestBackend_CreateBranch(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			repo := setupTestRepo(t)

			if err := os.WriteFile(filepath.Join(repo, "wip.txt"), []byte("in progress\n"), 0644); err != nil {
				t.Fatal(err)
			}

			if err := b.CreateBranch(ctx, repo, "wip", true); err != nil {
				t.Fatalf("CreateBranch(wip, checkout) error = %v", err)
			}
			if head, _ := b.Head(ctx, repo); head != "wip" {
				t.Errorf("Head() = %q, want wip", head)
			}
			if _, err := os.Stat(filepath.Join(repo, "wip.txt")); err != nil {
				t.Errorf("uncommitted file lost on branch creation: %v", err)
			}

			if err := b.CreateBranch(ctx, repo, "parked", false); err != nil {
				t.Fatalf("CreateBranch(parked) error = %v", err)
			}
			if head, _ := b.Head(ctx, repo); head != "wip" {
				t.Errorf("Head() = %q after non-checkout create, want wip", head)
			}
			if err := runGit(ctx, repo, "rev-parse", "--verify", "refs/heads/parked"); err != nil {
				t.Errorf("branch parked missing: %v", err)
			}

			if err := b.CreateBranch(ctx, repo, "wip", true); err == nil {
				t.Error("CreateBranch(existing) = nil, want error")
			}
		})
	}
}

func TestBackend_Fetch(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			repo, _ := setupTestRepoWithOrigin(t)
			if err := b.Fetch(ctx, repo, FetchOptions{Prune: true}); err != nil {
				t.Errorf("Fetch() error = %v", err)
			}
			if err := b.Fetch(ctx, repo, FetchOptions{AllRemotes: true}); err != nil {
				t.Errorf("Fetch(all) error = %v", err)
			}

			local := setupTestRepo(t)
			if err := b.Fetch(ctx, local, FetchOptions{}); err != nil {
				t.Errorf("Fetch() without remotes error = %v, want nil", err)
			}
		})
	}
}

func TestBackend_NotARepo(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			dir := resolveTempDir(t)
			if _, err := b.Refs(ctx, dir); err == nil {
				t.Error("Refs(non-repo) = nil error, want error")
			}
			if _, err := b.Head(ctx, dir); err == nil {
				t.Error("Head(non-repo) = nil error, want error")
			}
		})
	}
}

// assertContains checks that all wanted items exist in the got slice.
func assertContains(t *testing.T, got []string, want ...string) {
	t.Helper()
	set := make(map[string]bool, len(got))
	for _, s := range got {
		set[s] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("missing %q in %v", w, got)
		}
	}
}
