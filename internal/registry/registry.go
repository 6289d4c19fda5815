// Package registry manages the workspace repository registry at ~/.gqc/repos.json
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/gqc/internal/storage"
)

// Repo represents a registered git repository
type Repo struct {
	Path   string   `json:"path"`             // Absolute path to the working copy
	Name   string   `json:"name"`             // Display name, unique within the registry
	Labels []string `json:"labels,omitempty"` // Labels for grouping
}

// Registry holds all registered repos in registration order.
// Registration order is the inventory order used when planning.
type Registry struct {
	Repos []Repo `json:"repos"`

	path string
}

// DefaultPath returns ~/.gqc/repos.json
func DefaultPath() (string, error) {
	dir, err := storage.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repos.json"), nil
}

// Load reads the registry from path, or from DefaultPath when path is empty.
// Returns an empty registry if the file doesn't exist.
func Load(path string) (*Registry, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	reg := Registry{path: path}
	if err := storage.LoadJSON(path, &reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{Repos: []Repo{}, path: path}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	if reg.Repos == nil {
		reg.Repos = []Repo{}
	}

	return &reg, nil
}

// Path returns the file the registry was loaded from.
func (r *Registry) Path() string {
	return r.path
}

// Save writes the registry back to its file atomically
func (r *Registry) Save() error {
	if r.path == "" {
		return errors.New("save registry: no path (registry was not loaded from disk)")
	}
	if err := storage.SaveJSON(r.path, r); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Edit loads the registry at path, applies fn and saves the result while
// holding a lock next to the file, so concurrent invocations don't lose
// each other's changes. Nothing is saved when fn fails.
func Edit(path string, fn func(*Registry) error) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	return storage.WithLock(path+".lock", func() error {
		reg, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(reg); err != nil {
			return err
		}
		return reg.Save()
	})
}

// Add registers a new repo. Returns error if path or name is already registered.
func (r *Registry) Add(repo Repo) error {
	absPath, err := filepath.Abs(repo.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	repo.Path = absPath
	if repo.Name == "" {
		repo.Name = filepath.Base(absPath)
	}

	for _, existing := range r.Repos {
		if existing.Path == repo.Path {
			return fmt.Errorf("repo already registered: %s", repo.Path)
		}
		if existing.Name == repo.Name {
			return fmt.Errorf("repo name already exists: %s (use --name to pick another)", repo.Name)
		}
	}

	slices.Sort(repo.Labels)
	repo.Labels = slices.Compact(repo.Labels)
	r.Repos = append(r.Repos, repo)
	return nil
}

// Remove unregisters a repo by name or path
func (r *Registry) Remove(nameOrPath string) error {
	for i, repo := range r.Repos {
		if repo.Name == nameOrPath || repo.Path == nameOrPath {
			r.Repos = slices.Delete(r.Repos, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("repo not found: %s", nameOrPath)
}

// FindByName looks up a repo by name only
func (r *Registry) FindByName(name string) (*Repo, error) {
	for i := range r.Repos {
		if r.Repos[i].Name == name {
			return &r.Repos[i], nil
		}
	}
	return nil, fmt.Errorf("repo not found: %s", name)
}

// Select returns the repos named in names or carrying any of labels,
// in registration order. With neither filter every repo is returned.
// Unknown names are reported as an error.
func (r *Registry) Select(names, labels []string) ([]Repo, error) {
	if len(names) == 0 && len(labels) == 0 {
		return slices.Clone(r.Repos), nil
	}

	var errs []error
	for _, n := range names {
		if _, err := r.FindByName(n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var out []Repo
	for _, repo := range r.Repos {
		if slices.Contains(names, repo.Name) || repo.MatchesLabels(labels) {
			out = append(out, repo)
		}
	}
	return out, nil
}

// AllLabels returns all unique labels across all repos
func (r *Registry) AllLabels() []string {
	var labels []string
	for _, repo := range r.Repos {
		labels = append(labels, repo.Labels...)
	}
	slices.Sort(labels)
	return slices.Compact(labels)
}

// AllRepoNames returns all repo names, sorted
func (r *Registry) AllRepoNames() []string {
	names := make([]string, len(r.Repos))
	for i, repo := range r.Repos {
		names[i] = repo.Name
	}
	slices.Sort(names)
	return names
}

// AddLabel adds a label to a repo
func (r *Registry) AddLabel(repoName, label string) error {
	repo, err := r.FindByName(repoName)
	if err != nil {
		return err
	}
	if repo.HasLabel(label) {
		return nil
	}
	repo.Labels = append(repo.Labels, label)
	slices.Sort(repo.Labels)
	return nil
}

// RemoveLabel removes a label from a repo
func (r *Registry) RemoveLabel(repoName, label string) error {
	repo, err := r.FindByName(repoName)
	if err != nil {
		return err
	}
	repo.Labels = slices.DeleteFunc(repo.Labels, func(l string) bool { return l == label })
	return nil
}

// HasLabel checks if a repo has a specific label
func (repo *Repo) HasLabel(label string) bool {
	return slices.Contains(repo.Labels, label)
}

// MatchesLabels checks if repo has any of the given labels
func (repo *Repo) MatchesLabels(labels []string) bool {
	for _, label := range labels {
		if repo.HasLabel(label) {
			return true
		}
	}
	return false
}

// PathExists reports whether the registered path is still present on disk.
func (repo *Repo) PathExists() (bool, error) {
	_, err := os.Stat(repo.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// String returns a display string for the repo
func (repo *Repo) String() string {
	if len(repo.Labels) > 0 {
		return fmt.Sprintf("%s (%s)", repo.Name, strings.Join(repo.Labels, ", "))
	}
	return repo.Name
}
