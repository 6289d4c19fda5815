package git

import (
	"context"
	"fmt"
)

// Backend names accepted by [NewBackend].
const (
	BackendCLI    = "cli"
	BackendNative = "native"
)

// FetchOptions controls [Backend.Fetch].
type FetchOptions struct {
	AllRemotes bool // fetch every configured remote instead of the default one
	Prune      bool // drop remote-tracking refs that no longer exist upstream
}

// Backend exposes the per-repository primitives gqc needs.
//
// The default implementation shells out to the git executable; the native
// implementation uses go-git and needs no git binary.
// Every method addresses the working copy rooted at path.
type Backend interface {
	// Name returns the backend identifier ("cli" or "native").
	Name() string

	// Head returns the checked out branch name, or "" for a detached HEAD.
	Head(ctx context.Context, path string) (string, error)
	// Refs lists local heads, remote heads and other refs.
	Refs(ctx context.Context, path string) ([]Ref, error)
	// IsDirty reports uncommitted changes, including untracked files.
	IsDirty(ctx context.Context, path string) (bool, error)

	// Checkout switches to branch name, creating a tracking branch when
	// only a single remote has it.
	Checkout(ctx context.Context, path, name string) error
	// CreateBranch creates branch name at HEAD and optionally switches to it,
	// keeping uncommitted changes.
	CreateBranch(ctx context.Context, path, name string, checkout bool) error
	// Fetch updates remote-tracking refs.
	Fetch(ctx context.Context, path string, opts FetchOptions) error
}

// NewBackend returns the backend registered under name.
// An empty name selects the cli backend.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendCLI:
		return NewCLI(), nil
	case BackendNative:
		return NewNative(), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q: must be %q or %q", name, BackendCLI, BackendNative)
	}
}
