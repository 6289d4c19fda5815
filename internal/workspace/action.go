package workspace

import (
	"slices"
	"strings"

	"github.com/raphi011/gqc/internal/git"
)

// ActionKind identifies the mutation planned for one repository.
type ActionKind uint8

const (
	ActionNoOp ActionKind = iota
	ActionCheckout
	ActionCreateBranch
	ActionFetch
)

func (k ActionKind) String() string {
	switch k {
	case ActionNoOp:
		return "no-op"
	case ActionCheckout:
		return "checkout"
	case ActionCreateBranch:
		return "create branch"
	case ActionFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

// Action is one planned mutation. Ref names the branch for checkout and
// branch creation; Fetch carries options for fetches.
type Action struct {
	Kind  ActionKind
	Ref   string
	Fetch git.FetchOptions
}

// NoOp leaves a repository untouched.
func NoOp() Action { return Action{Kind: ActionNoOp} }

// Checkout switches to an existing local or remote branch.
func Checkout(ref string) Action { return Action{Kind: ActionCheckout, Ref: ref} }

// CreateBranch creates a branch at the current head and checks it out.
func CreateBranch(name string) Action { return Action{Kind: ActionCreateBranch, Ref: name} }

// Fetch updates remote-tracking refs.
func Fetch(opts git.FetchOptions) Action { return Action{Kind: ActionFetch, Fetch: opts} }

func (a Action) String() string {
	if a.Ref == "" {
		return a.Kind.String()
	}
	return a.Kind.String() + " " + a.Ref
}

// Plan holds at most one action per repository.
type Plan map[*Repository]Action

// Pending returns the repositories with something to do, sorted by name.
func (p Plan) Pending() []*Repository {
	var repos []*Repository
	for repo, action := range p {
		if action.Kind != ActionNoOp {
			repos = append(repos, repo)
		}
	}
	sortByName(repos)
	return repos
}

func sortByName(repos []*Repository) {
	slices.SortFunc(repos, func(a, b *Repository) int {
		return strings.Compare(a.Name, b.Name)
	})
}
