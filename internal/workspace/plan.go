package workspace

import "slices"

// BranchPlan is the planner's proposal for creating a branch across the
// workspace.
type BranchPlan struct {
	// Suggestion is a branch name to offer as the default, or "".
	Suggestion string
	// Preselected marks repositories that have uncommitted work and no
	// branch with the proposed name yet.
	Preselected map[*Repository]bool
}

// Preselection returns the flags for repos in order, for list pickers.
func (p BranchPlan) Preselection(repos []*Repository) []bool {
	flags := make([]bool, len(repos))
	for i, repo := range repos {
		flags[i] = p.Preselected[repo]
	}
	return flags
}

// PlanBranchCreation suggests a branch name and pre-selects the
// repositories that likely need the proposed branch.
func PlanBranchCreation(proposed string, catalog *Catalog, repos []*Repository) BranchPlan {
	plan := BranchPlan{
		Suggestion:  SuggestBranchName(repos, catalog.Defaults()),
		Preselected: make(map[*Repository]bool, len(repos)),
	}
	for _, repo := range repos {
		plan.Preselected[repo] = repo.Dirty && !catalog.Has(proposed, repo)
	}
	return plan
}

// SuggestBranchName returns the first head, in inventory order, that is not
// a default ref. Someone already working on a feature branch elsewhere in
// the workspace most likely wants the same name.
func SuggestBranchName(repos []*Repository, defaults []string) string {
	for _, repo := range repos {
		if repo.Head != "" && !slices.Contains(defaults, repo.Head) {
			return repo.Head
		}
	}
	return ""
}
