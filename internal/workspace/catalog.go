package workspace

import (
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gqc/internal/git"
)

// maxSuggestions caps the names returned by Similar.
const maxSuggestions = 3

type repoSet map[*Repository]struct{}

// Catalog maps normalized ref names to the repositories exposing them.
// It is built once per operation and read-only afterwards.
type Catalog struct {
	// Repos is every inventoried repository in inventory order,
	// including repositories without any refs.
	Repos []*Repository
	// Names lists the selectable ref names, sorted and unique.
	Names []string

	buckets  map[string]repoSet
	fallback map[string]repoSet // membership of default ref names
	defaults []string
}

// BuildCatalog collapses the refs of every repository into one name space.
//
// Local and remote heads normalize to the same name, so "origin/feature-x"
// and "feature-x" count once per repository. "HEAD" and the default ref
// names are never selectable; membership of the defaults is still tracked
// for the fallback tier of the resolver.
func BuildCatalog(repos []*Repository, defaults []string) *Catalog {
	c := &Catalog{
		Repos:    repos,
		buckets:  make(map[string]repoSet),
		fallback: make(map[string]repoSet),
		defaults: slices.Clone(defaults),
	}

	for _, repo := range repos {
		for _, ref := range repo.Refs {
			name, ok := git.NormalizeRef(ref)
			if !ok || name == git.HeadRefName {
				continue
			}

			index := c.buckets
			if slices.Contains(c.defaults, name) {
				index = c.fallback
			}
			set, ok := index[name]
			if !ok {
				set = make(repoSet)
				index[name] = set
			}
			set[repo] = struct{}{}
		}
	}

	c.Names = make([]string, 0, len(c.buckets))
	for name := range c.buckets {
		c.Names = append(c.Names, name)
	}
	slices.Sort(c.Names)

	return c
}

// Defaults returns the default ref names in priority order.
func (c *Catalog) Defaults() []string {
	return slices.Clone(c.defaults)
}

// Has reports whether repo exposes a local or remote head named name.
func (c *Catalog) Has(name string, repo *Repository) bool {
	if _, ok := c.buckets[name][repo]; ok {
		return true
	}
	_, ok := c.fallback[name][repo]
	return ok
}

// ReposWith returns the repositories exposing name, in inventory order.
func (c *Catalog) ReposWith(name string) []*Repository {
	var repos []*Repository
	for _, repo := range c.Repos {
		if c.Has(name, repo) {
			repos = append(repos, repo)
		}
	}
	return repos
}

// RepoNames returns the sorted names of the repositories exposing name.
func (c *Catalog) RepoNames(name string) []string {
	var names []string
	for _, repo := range c.ReposWith(name) {
		names = append(names, repo.Name)
	}
	slices.Sort(names)
	return names
}

// Repo finds an inventoried repository by name.
func (c *Catalog) Repo(name string) *Repository {
	for _, repo := range c.Repos {
		if repo.Name == name {
			return repo
		}
	}
	return nil
}

// Similar returns up to three selectable names fuzzy-matching name, best
// match first. Used to suggest alternatives for an unknown ref.
func (c *Catalog) Similar(name string) []string {
	if name == "" {
		return nil
	}
	var names []string
	for _, m := range fuzzy.Find(name, c.Names) {
		names = append(names, m.Str)
		if len(names) == maxSuggestions {
			break
		}
	}
	return names
}
