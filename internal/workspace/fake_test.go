package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/raphi011/gqc/internal/git"
)

// fakeBackend is an in-memory git.Backend keyed by repository path.
type fakeBackend struct {
	mu       sync.Mutex
	heads    map[string]string
	refs     map[string][]git.Ref
	dirty    map[string]bool
	readErr  map[string]error // returned by Head
	writeErr map[string]error // returned by Checkout, CreateBranch and Fetch
	calls    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		heads:    map[string]string{},
		refs:     map[string][]git.Ref{},
		dirty:    map[string]bool{},
		readErr:  map[string]error{},
		writeErr: map[string]error{},
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Head(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErr[path]; err != nil {
		return "", err
	}
	return f.heads[path], nil
}

func (f *fakeBackend) Refs(_ context.Context, path string) ([]git.Ref, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.refs[path]), nil
}

func (f *fakeBackend) IsDirty(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty[path], nil
}

func (f *fakeBackend) Checkout(_ context.Context, path, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("checkout %s %s", path, name))
	if err := f.writeErr[path]; err != nil {
		return err
	}
	if !hasBranch(f.refs[path], name) {
		return errors.New("pathspec '" + name + "' did not match")
	}
	f.heads[path] = name
	return nil
}

func (f *fakeBackend) CreateBranch(_ context.Context, path, name string, checkout bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("create %s %s %t", path, name, checkout))
	if err := f.writeErr[path]; err != nil {
		return err
	}
	f.refs[path] = append(f.refs[path], local(name))
	if checkout {
		f.heads[path] = name
	}
	return nil
}

func (f *fakeBackend) Fetch(_ context.Context, path string, _ git.FetchOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "fetch "+path)
	return f.writeErr[path]
}

func (f *fakeBackend) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := slices.Clone(f.calls)
	slices.Sort(calls)
	return calls
}

// add registers a repository at path "/ws/<name>" and returns its handle.
func (f *fakeBackend) add(name, head string, dirty bool, refs ...git.Ref) *Repository {
	path := "/ws/" + name
	f.heads[path] = head
	f.refs[path] = refs
	f.dirty[path] = dirty
	return &Repository{Name: name, Path: path, Head: head, Refs: refs, Dirty: dirty, backend: f}
}

func local(name string) git.Ref {
	return git.Ref{Kind: git.RefKindLocalHead, Name: name}
}

func remote(name string) git.Ref {
	return git.Ref{Kind: git.RefKindRemoteHead, Name: "origin/" + name, Remote: "origin"}
}

var testDefaults = []string{"main", "master"}

func hasBranch(refs []git.Ref, name string) bool {
	for _, ref := range refs {
		if n, ok := git.NormalizeRef(ref); ok && n == name {
			return true
		}
	}
	return false
}
