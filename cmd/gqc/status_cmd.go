package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/ui/static"
	"github.com/raphi011/gqc/internal/ui/styles"
	"github.com/raphi011/gqc/internal/workspace"
)

// repoStatus is the JSON form of one repository snapshot.
type repoStatus struct {
	Name  string `json:"name"`
	Head  string `json:"head"`
	Dirty bool   `json:"dirty"`
	Path  string `json:"path"`
}

func statusEntries(repos []*workspace.Repository) []repoStatus {
	entries := make([]repoStatus, len(repos))
	for i, r := range repos {
		entries[i] = repoStatus{Name: r.Name, Head: r.Head, Dirty: r.Dirty, Path: r.Path}
	}
	return entries
}

func statusRows(repos []*workspace.Repository) [][]string {
	rows := make([][]string, len(repos))
	for i, r := range repos {
		rows[i] = []string{r.Name, styles.FormatHead(r.Head), styles.FormatDirty(r.Dirty), r.Path}
	}
	return rows
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the checked out branch of every repository",
		Aliases: []string{"st"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  gqc status          # Table of repositories
  gqc st --json       # JSON for scripting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := loadWorkspace(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return out.JSON(statusEntries(s.repos))
			}
			if len(s.repos) == 0 {
				log.FromContext(ctx).Println("No repositories found")
				return nil
			}
			out.Print(static.RenderTable([]string{"REPO", "HEAD", "STATE", "PATH"}, statusRows(s.repos)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
