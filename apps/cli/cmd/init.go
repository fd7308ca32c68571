package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/diplomat/packages/core/config"
)

func newInitCmd() *cobra.Command {
	var (
		force       bool
		destination string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a diplomat configuration file",
		Long: `Create a .diplomat.yaml configuration file in the current directory.

Examples:
  diplomat init
  diplomat init --destination api.example.com --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			return initConfig(cmd, filepath.Join(cwd, ".diplomat.yaml"), destination, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&destination, "destination", "", "Default destination to store in the file")
	return cmd
}

func initConfig(cmd *cobra.Command, path, destination string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", path))
		}
	}

	cfg := config.DefaultConfig()
	cfg.Destination = destination
	cfg.Headers = map[string]string{"Accept": "application/json"}
	if err := cfg.Validate(); err != nil {
		return exitWith(ExitConfigError, err)
	}

	if err := cfg.SaveConfig(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
