package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/ui/prompt"
	"github.com/raphi011/gqc/internal/ui/styles"
	"github.com/raphi011/gqc/internal/workspace"
)

func newBranchCmd() *cobra.Command {
	var (
		repoNames []string
		all       bool
	)

	cmd := &cobra.Command{
		Use:     "branch [name]",
		Short:   "Create a branch in selected repositories",
		Aliases: []string{"b"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Create a branch at the current HEAD of selected repositories and check
it out, keeping uncommitted changes.

Without a name you are prompted for one; the branch already checked out
elsewhere in the workspace is offered as the default. Repositories with
uncommitted changes that lack the branch are pre-selected.

Non-interactively the pre-selected repositories are used unless
--repo-name or --all is given.`,
		Example: `  gqc branch                         # Prompt for name and repositories
  gqc branch feature-y               # Prompt for repositories only
  gqc b feature-y --repo-name api    # Create in api only
  gqc b feature-y --all              # Create everywhere`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			if all && len(repoNames) > 0 {
				return errors.New("--all cannot be combined with --repo-name")
			}

			s, err := loadWorkspace(ctx)
			if err != nil {
				return err
			}
			if len(s.repos) == 0 {
				l.Println("No repositories found")
				return nil
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				if !isInteractive() {
					return errors.New("branch name required when not running interactively")
				}
				suggestion := workspace.SuggestBranchName(s.repos, s.cfg.DefaultRefs)
				res, err := prompt.TextInput("Branch name", suggestion)
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				name = res.Value
			}
			if err := git.ValidateBranchName(name); err != nil {
				return err
			}

			plan := workspace.PlanBranchCreation(name, s.catalog, s.repos)

			var selected []string
			switch {
			case all:
				selected = repoNamesOf(s.repos)
			case len(repoNames) > 0:
				if selected, err = checkRepoNames(s.catalog, repoNames); err != nil {
					return err
				}
			case isInteractive():
				res, err := prompt.MultiSelect("Create "+name+" in", branchOptions(s.repos), plan.Preselection(s.repos))
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				for _, i := range res.Indices {
					selected = append(selected, s.repos[i].Name)
				}
			default:
				selected = preselectedNames(plan, s.repos)
			}

			if len(selected) == 0 {
				l.Println("No repositories selected")
				return nil
			}

			report := runBatch(ctx, "Creating "+name, func(ctx context.Context) workspace.Report {
				return workspace.CreateBranches(ctx, selected, name, s.catalog)
			})
			printReport(ctx, report)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&repoNames, "repo-name", nil, "Repository to create the branch in (repeatable)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Create the branch in every repository")
	cmd.RegisterFlagCompletionFunc("repo-name", completeWorkspaceRepos)

	return cmd
}

// branchOptions describes each repository by its head and state.
func branchOptions(repos []*workspace.Repository) []prompt.Option {
	options := make([]prompt.Option, len(repos))
	for i, repo := range repos {
		desc := styles.FormatHead(repo.Head)
		if repo.Dirty {
			desc += " " + styles.SymbolDirty
		}
		options[i] = prompt.Option{Label: repo.Name, Description: desc}
	}
	return options
}

func repoNamesOf(repos []*workspace.Repository) []string {
	names := make([]string, len(repos))
	for i, repo := range repos {
		names[i] = repo.Name
	}
	return names
}

func preselectedNames(plan workspace.BranchPlan, repos []*workspace.Repository) []string {
	var names []string
	for _, repo := range repos {
		if plan.Preselected[repo] {
			names = append(names, repo.Name)
		}
	}
	return names
}

// checkRepoNames verifies every name belongs to the loaded workspace.
func checkRepoNames(c *workspace.Catalog, names []string) ([]string, error) {
	var errs []error
	for _, n := range names {
		if c.Repo(n) == nil {
			errs = append(errs, fmt.Errorf("repository not in workspace: %s", n))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return names, nil
}
