package main

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/ui/prompt"
	"github.com/raphi011/gqc/internal/ui/static"
	"github.com/raphi011/gqc/internal/workspace"
)

// defaultOptionLabel is the picker entry that checks out default refs.
const defaultOptionLabel = "(default)"

func newCheckoutCmd() *cobra.Command {
	var (
		useDefault bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:     "checkout [ref]",
		Short:   "Check out a branch in every repository",
		Aliases: []string{"co"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Check out a branch across the workspace.

Repositories that have the branch (locally or on a remote) switch to it.
Every other repository switches to the first default ref it has
(default_refs, main then master). Repositories already on the chosen
branch, or with none of the candidates, are left alone.

Without an argument an interactive picker lists every branch together
with the repositories that have it.`,
		Example: `  gqc checkout feature-x       # feature-x where present, default elsewhere
  gqc co                        # Pick a branch interactively
  gqc checkout --default        # Return every repository to its default ref
  gqc checkout feature-x -n     # Show what would happen
  gqc checkout feature-x -l api # Only repositories labelled "api"`,
		ValidArgsFunction: completeRefs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			if useDefault && len(args) > 0 {
				return errors.New("--default cannot be combined with a ref")
			}

			s, err := loadWorkspace(ctx)
			if err != nil {
				return err
			}
			if len(s.repos) == 0 {
				l.Println("No repositories found")
				return nil
			}

			target := ""
			switch {
			case useDefault:
			case len(args) == 1:
				target = args[0]
			case isInteractive():
				res, err := prompt.Select("Check out", refOptions(s.catalog))
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				if res.Index > 0 {
					target = res.Value
				}
			default:
				return errors.New("ref required when not running interactively (or use --default)")
			}

			if target != "" && !knownRef(s.catalog, target) {
				l.Warnf("%s not found in any repository, using default refs", target)
				if similar := s.catalog.Similar(target); len(similar) > 0 {
					l.Printf("Did you mean: %s?\n", strings.Join(similar, ", "))
				}
			}

			if dryRun {
				printPlan(ctx, workspace.ResolveCheckout(target, s.catalog, s.cfg.DefaultRefs))
				return nil
			}

			message := "Checking out default refs"
			if target != "" {
				message = "Checking out " + target
			}
			report := runBatch(ctx, message, func(ctx context.Context) workspace.Report {
				if target == "" {
					return workspace.CheckoutDefault(ctx, s.catalog, s.cfg.DefaultRefs)
				}
				return workspace.CheckoutAll(ctx, target, s.catalog, s.cfg.DefaultRefs)
			})
			printReport(ctx, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefault, "default", false, "Check out each repository's default ref")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the plan without changing anything")

	return cmd
}

// refOptions builds the picker entries: the default entry first, then every
// selectable ref annotated with the repositories that have it.
func refOptions(c *workspace.Catalog) []prompt.Option {
	options := make([]prompt.Option, 0, len(c.Names)+1)
	options = append(options, prompt.Option{
		Label:       defaultOptionLabel,
		Description: "- " + strings.Join(c.Defaults(), " > "),
	})
	for _, name := range c.Names {
		options = append(options, prompt.Option{
			Label:       name,
			Description: "- " + strings.Join(c.RepoNames(name), ", "),
		})
	}
	return options
}

// knownRef reports whether any repository has ref.
func knownRef(c *workspace.Catalog, ref string) bool {
	return slices.Contains(c.Names, ref) || len(c.ReposWith(ref)) > 0
}

func printPlan(ctx context.Context, plan workspace.Plan) {
	rows := planRows(plan)
	if len(rows) == 0 {
		log.FromContext(ctx).Println("Nothing to do")
		return
	}
	output.FromContext(ctx).Print(static.RenderTable([]string{"REPO", "HEAD", "ACTION"}, rows))
	log.FromContext(ctx).Printf("%d repositories would change\n", len(rows))
}
