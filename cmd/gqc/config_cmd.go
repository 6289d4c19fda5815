package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/gqc/internal/config"
	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/ui/prompt"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage gqc configuration.

Global config: ~/.config/gqc/config.toml
Local config:  .gqc.toml (in the workspace directory)

GQC_WORKSPACE_DIR, GQC_DEFAULT_REFS and GQC_BACKEND override the global file.`,
		Example: `  gqc config init   # Create default global config
  gqc config show   # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  gqc config init      # Create global config
  gqc config init -f   # Overwrite existing config
  gqc config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.DefaultConfigContent())
				return nil
			}

			path, err := config.Path()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				if !isInteractive() {
					return fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
				}
				res, err := prompt.Confirm(fmt.Sprintf("Overwrite %s?", path), false)
				if err != nil {
					return err
				}
				if !res.Confirmed {
					return errors.New("aborted")
				}
				force = true
			}

			if err := config.InitAt(path, force); err != nil {
				return err
			}

			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

The output merges the global file, environment overrides and the
.gqc.toml of the workspace directory.`,
		Example: `  gqc config show          # TOML
  gqc config show --json   # JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			out := output.FromContext(ctx)

			if jsonOutput {
				return out.JSON(cfg)
			}

			out.Printf("# workspace: %s\n", scopeFromContext(ctx).Dir)
			return toml.NewEncoder(out.Writer()).Encode(cfg)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
