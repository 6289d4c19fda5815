package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/config"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	dirFlag    string
	labelFlags []string
	repoFlags  []string
)

// Command group IDs for organizing help output
const (
	GroupCore     = "core"
	GroupRegistry = "registry"
	GroupConfig   = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gqc",
	Short: "Run git branch operations across every repository of a workspace",
	Long: `gqc checks out, creates and fetches branches across a workspace of git
repositories at once.

Repositories come from the registry ("gqc repo add") or, when none are
registered, from the direct children of the workspace directory. A
repository lacking the requested branch falls back to the first configured
default ref it has (main, then master).`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		return setupContext(cmd)
	},
	// Run is not set - shows help when no subcommand provided
}

// setupContext loads configuration and attaches it, the workspace scope and
// the working directory to the command context.
func setupContext(cmd *cobra.Command) error {
	// Flags are parsed by now, so the logger can honor -v and -q.
	l := log.New(os.Stderr, verbose, quiet)

	// config init must work even when the existing file is broken
	ctx, err := prepareContext(log.WithLogger(cmd.Context(), l), cmd.Name() == "init")
	if err != nil {
		return err
	}

	cmd.SetContext(ctx)
	return nil
}

// prepareContext attaches the working directory, the effective config and
// the scope to ctx. With tolerateConfig set, an unreadable config file is
// logged and the defaults are used instead.
func prepareContext(ctx context.Context, tolerateConfig bool) (context.Context, error) {
	l := log.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	ctx = config.WithWorkDir(ctx, workDir)

	cfg, err := config.Load()
	if err != nil {
		if !tolerateConfig {
			return nil, fmt.Errorf("load config: %w", err)
		}
		l.Warnf("%v", err)
		cfg = config.Default()
	}

	dir := dirFlag
	if dir == "" {
		dir = cfg.WorkspaceDir
	}
	if dir == "" {
		dir = workDir
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("resolve workspace directory: %w", err)
	}

	local, err := config.LoadLocal(dir)
	if err != nil {
		if !tolerateConfig {
			return nil, err
		}
		l.Warnf("%v", err)
	}
	ctx = config.WithConfig(ctx, config.MergeLocal(&cfg, local))
	ctx = withScope(ctx, scope{Dir: dir, Labels: labelFlags, Repos: repoFlags})

	return ctx, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data); colors are dropped when
	// stdout is not a terminal or NO_COLOR is set.
	ctx = output.WithPrinter(ctx, colorprofile.NewWriter(os.Stdout, os.Environ()))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gqc -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Workspace directory (default: workspace_dir from config, then cwd)")
	rootCmd.PersistentFlags().StringSliceVarP(&labelFlags, "label", "l", nil, "Only registered repositories with this label (repeatable)")
	rootCmd.PersistentFlags().StringSliceVarP(&repoFlags, "repo", "r", nil, "Only the registered repository with this name (repeatable)")
	rootCmd.RegisterFlagCompletionFunc("label", completeLabels)
	rootCmd.RegisterFlagCompletionFunc("repo", completeRepoNames)

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupRegistry, Title: "Registry Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newRefsCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Registry commands
	rootCmd.AddCommand(newRepoCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
