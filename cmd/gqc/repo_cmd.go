package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/registry"
	"github.com/raphi011/gqc/internal/ui/static"
	"github.com/raphi011/gqc/internal/ui/styles"
)

func newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repo",
		Short:   "Manage registered repositories",
		Aliases: []string{"repos"},
		GroupID: GroupRegistry,
		Long: `Manage the repository registry (~/.gqc/repos.json).

When repositories are registered, workspace commands operate on them
instead of scanning the workspace directory. Labels group repositories
for the global --label filter.`,
	}

	cmd.AddCommand(newRepoAddCmd())
	cmd.AddCommand(newRepoRemoveCmd())
	cmd.AddCommand(newRepoListCmd())
	cmd.AddCommand(newRepoLabelCmd())

	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var (
		name   string
		labels []string
	)

	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Register existing repositories",
		Args:  cobra.MinimumNArgs(1),
		Example: `  gqc repo add ~/src/acme/api                 # Register single repo
  gqc repo add ~/src/acme/*                   # Register every repo in a directory
  gqc repo add ~/src/acme/api --name backend  # Custom name (single repo only)
  gqc repo add ~/src/acme/api -l team-a       # Add labels`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			// Custom name only works with single path
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single path")
			}

			return registry.Edit(configFromContext(ctx).RegistryPath, func(reg *registry.Registry) error {
				var added int
				for _, path := range args {
					absPath, err := filepath.Abs(path)
					if err != nil {
						l.Warnf("skipping %s: %v", path, err)
						continue
					}

					// A path inside a working copy registers its root
					if !git.IsWorkingCopy(absPath) {
						root, err := git.GetRepoRoot(ctx, absPath)
						if err != nil {
							l.Warnf("skipping %s: not a git working copy", absPath)
							continue
						}
						absPath = root
					}

					if err := reg.Add(registry.Repo{Path: absPath, Name: name, Labels: labels}); err != nil {
						l.Warnf("skipping %s: %v", absPath, err)
						continue
					}
					added++

					registered := reg.Repos[len(reg.Repos)-1]
					out.Printf("Registered %s (%s)\n", registered.Name, absPath)
				}

				if added == 0 {
					return fmt.Errorf("no repositories added")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name (default: directory name)")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Labels for grouping (repeatable)")
	cmd.RegisterFlagCompletionFunc("label", completeLabels)

	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rm <name>...",
		Short:             "Unregister repositories",
		Aliases:           []string{"remove"},
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeRepoNames,
		Example: `  gqc repo rm api            # Unregister by name
  gqc repo rm ~/src/acme/api # Unregister by path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			return registry.Edit(configFromContext(ctx).RegistryPath, func(reg *registry.Registry) error {
				for _, arg := range args {
					target := arg
					if strings.ContainsRune(arg, filepath.Separator) {
						if abs, err := filepath.Abs(arg); err == nil {
							target = abs
						}
					}
					if err := reg.Remove(target); err != nil {
						return err
					}
					out.Printf("Unregistered %s\n", arg)
				}
				return nil
			})
		},
	}

	return cmd
}

func newRepoListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered repositories",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			reg, err := loadRegistry(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				repos := reg.Repos
				if repos == nil {
					repos = []registry.Repo{}
				}
				return out.JSON(repos)
			}

			if len(reg.Repos) == 0 {
				log.FromContext(ctx).Println("No repositories registered")
				return nil
			}

			rows := make([][]string, len(reg.Repos))
			for i, repo := range reg.Repos {
				path := repo.Path
				if exists, err := repo.PathExists(); err == nil && !exists {
					path += " " + styles.ErrorStyle.Render("(missing)")
				}
				rows[i] = []string{repo.Name, strings.Join(repo.Labels, ", "), path}
			}
			out.Print(static.RenderTable([]string{"NAME", "LABELS", "PATH"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newRepoLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage repository labels",
		Long: `Manage labels on registered repositories.

Labels select repositories with the global --label flag.`,
		Example: `  gqc repo label add api backend   # Label api as backend
  gqc repo label rm api backend    # Remove the label`,
	}

	cmd.AddCommand(newRepoLabelEditCmd("add", "Add a label to a repository", (*registry.Registry).AddLabel))
	cmd.AddCommand(newRepoLabelEditCmd("rm", "Remove a label from a repository", (*registry.Registry).RemoveLabel))

	return cmd
}

func newRepoLabelEditCmd(use, short string, edit func(*registry.Registry, string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:               use + " <repo> <label>",
		Short:             short,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeRepoNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var labels []string
			err := registry.Edit(configFromContext(ctx).RegistryPath, func(reg *registry.Registry) error {
				if err := edit(reg, args[0], args[1]); err != nil {
					return err
				}
				labels = labelsOf(reg, args[0])
				return nil
			})
			if err != nil {
				return err
			}

			output.FromContext(ctx).Printf("%s: %s\n", args[0], strings.Join(labels, ", "))
			return nil
		},
	}
}

func labelsOf(reg *registry.Registry, name string) []string {
	repo, err := reg.FindByName(name)
	if err != nil {
		return nil
	}
	return repo.Labels
}
