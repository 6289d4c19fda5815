package main

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/config"
	"github.com/raphi011/gqc/internal/log"
)

// completionContext prepares a silent command context for shell completion,
// which runs without the root pre-run hook.
func completionContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if config.FromContext(ctx) != nil {
		return ctx
	}
	ctx = log.WithLogger(ctx, log.New(io.Discard, false, true))
	prepared, err := prepareContext(ctx, true)
	if err != nil {
		return ctx
	}
	return prepared
}

// completeRefs completes ref names present in the workspace, defaults included.
func completeRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	s, err := loadWorkspace(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := slices.Concat(s.catalog.Names, s.catalog.Defaults())
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLabels completes labels of registered repositories.
func completeLabels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := loadRegistry(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(reg.AllLabels(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeRepoNames completes names of registered repositories.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := loadRegistry(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := slices.DeleteFunc(reg.AllRepoNames(), func(n string) bool {
		return slices.Contains(args, n)
	})
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeWorkspaceRepos completes repositories in scope, registered or scanned.
func completeWorkspaceRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	refs, err := repoRefs(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterPrefix(items []string, prefix string) []string {
	var matches []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			matches = append(matches, item)
		}
	}
	return matches
}
