package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/gqc/internal/config"
	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/registry"
	"github.com/raphi011/gqc/internal/workspace"
)

// scope selects the repositories a command operates on.
type scope struct {
	Dir    string   // workspace directory, scanned when nothing is registered
	Labels []string // registry label filter
	Repos  []string // registry name filter
}

type scopeKey struct{}

func withScope(ctx context.Context, s scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// scopeFromContext returns the scope stored in ctx. Without one, the
// workspace directory comes from config or the working directory.
func scopeFromContext(ctx context.Context) scope {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s
	}
	s := scope{Dir: config.WorkDirFromContext(ctx)}
	if cfg := config.FromContext(ctx); cfg != nil && cfg.WorkspaceDir != "" {
		s.Dir = cfg.WorkspaceDir
	}
	return s
}

// configFromContext returns the config in ctx, or the defaults.
func configFromContext(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}

// loadRegistry loads the registry at the configured path.
func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, err := registry.Load(configFromContext(ctx).RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

// repoRefs lists the repositories in scope. Registered repositories take
// precedence; without any, the workspace directory is scanned. A missing
// workspace directory yields no repositories.
func repoRefs(ctx context.Context) ([]workspace.RepoRef, error) {
	l := log.FromContext(ctx)
	s := scopeFromContext(ctx)

	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	if len(reg.Repos) == 0 {
		if len(s.Labels) > 0 || len(s.Repos) > 0 {
			return nil, errors.New("--label and --repo need registered repositories (see 'gqc repo add')")
		}
		refs, err := workspace.ScanWorkspace(s.Dir)
		if err != nil {
			l.Warnf("%v", err)
			return nil, nil
		}
		l.Debug("scanned workspace", "dir", s.Dir, "repos", len(refs))
		return refs, nil
	}

	repos, err := reg.Select(s.Repos, s.Labels)
	if err != nil {
		return nil, err
	}
	refs := make([]workspace.RepoRef, len(repos))
	for i, r := range repos {
		refs[i] = workspace.RepoRef{Name: r.Name, Path: r.Path}
	}
	return refs, nil
}

// session is a freshly loaded workspace for one command.
type session struct {
	cfg     *config.Config
	repos   []*workspace.Repository
	catalog *workspace.Catalog
}

// loadWorkspace snapshots every repository in scope and builds the catalog.
// Repositories that cannot be read are skipped with a warning.
func loadWorkspace(ctx context.Context) (*session, error) {
	l := log.FromContext(ctx)
	cfg := configFromContext(ctx)

	backend, err := git.NewBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if backend.Name() == git.BackendCLI {
		if err := git.CheckGit(); err != nil {
			return nil, err
		}
	}

	refs, err := repoRefs(ctx)
	if err != nil {
		return nil, err
	}

	repos, warnings := workspace.ListRepositories(ctx, refs, backend)
	for _, w := range warnings {
		l.Warnf("skipping %v", w)
	}

	return &session{
		cfg:     cfg,
		repos:   repos,
		catalog: workspace.BuildCatalog(repos, cfg.DefaultRefs),
	}, nil
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
