package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/ui/static"
	"github.com/raphi011/gqc/internal/workspace"
)

// refEntry is the JSON form of one catalog entry.
type refEntry struct {
	Name  string   `json:"name"`
	Repos []string `json:"repos"`
}

func catalogEntries(c *workspace.Catalog) []refEntry {
	entries := make([]refEntry, len(c.Names))
	for i, name := range c.Names {
		entries[i] = refEntry{Name: name, Repos: c.RepoNames(name)}
	}
	return entries
}

func newRefsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "refs",
		Short:   "List branches across the workspace",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List every branch available for checkout, local and remote merged
into one name, with the repositories that have it.

Default refs and HEAD are not listed; "gqc checkout --default" targets them.`,
		Example: `  gqc refs          # Table of branches
  gqc ls --json     # JSON for scripting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := loadWorkspace(ctx)
			if err != nil {
				return err
			}

			entries := catalogEntries(s.catalog)
			if jsonOutput {
				return out.JSON(entries)
			}

			if len(entries) == 0 {
				log.FromContext(ctx).Println("No branches found")
				return nil
			}
			items := make([][2]string, len(entries))
			for i, e := range entries {
				items[i] = [2]string{e.Name, strings.Join(e.Repos, ", ")}
			}
			out.Print(static.RenderList(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
