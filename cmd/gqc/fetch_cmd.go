package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/workspace"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch",
		Short:   "Fetch every repository",
		Aliases: []string{"f"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Fetch remote branches in every repository concurrently.

Pruning and fetching all remotes follow the [fetch] config section.
Repositories without remotes are skipped silently.`,
		Example: `  gqc fetch            # Fetch the whole workspace
  gqc f -l backend     # Fetch repositories labelled "backend"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := loadWorkspace(ctx)
			if err != nil {
				return err
			}
			if len(s.repos) == 0 {
				log.FromContext(ctx).Println("No repositories found")
				return nil
			}

			opts := git.FetchOptions{
				AllRemotes: s.cfg.Fetch.AllRemotes,
				Prune:      s.cfg.Fetch.Prune,
			}
			report := runBatch(ctx, "Fetching", func(ctx context.Context) workspace.Report {
				return workspace.FetchAll(ctx, s.catalog, opts)
			})
			printReport(ctx, report)
			return nil
		},
	}

	return cmd
}
