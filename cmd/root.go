package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/gradlever/pkg/patchconfig"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("gradlever", "Read Android versionCode and versionName from app.json")
	cmd.Long = `gradlever patches android/app/build.gradle so that versionCode and
versionName are computed from the app's version manifest (app.json) at build
time instead of being hard-coded.

Run without a subcommand it patches the build file of the current project,
the same as 'gradlever patch'.`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "Show the changes without writing the build file")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPatch(cmd, patchDryRun)
	}

	cmd.PersistentFlags().String("project-root", ".", "Project root containing android/ and the version manifest")
	patchconfig.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newPatchCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCodeCmd())
	cmd.AddCommand(newBumpCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// Execute runs the root command with grove's styled help and errors.
func Execute() error {
	return cli.Execute(rootCmd)
}

// loadProjectConfig resolves the project root and the layered configuration
// for cmd.
func loadProjectConfig(cmd *cobra.Command) (*patchconfig.Config, string, error) {
	rootFlag, err := cmd.Flags().GetString("project-root")
	if err != nil {
		return nil, "", err
	}
	projectRoot, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve project root: %w", err)
	}

	// --config comes from cli.NewStandardCommand and names a grove.yml
	groveConfig, _ := cmd.Flags().GetString("config")
	cfg, err := patchconfig.LoadWithGroveConfig(projectRoot, groveConfig)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, projectRoot, nil
}
