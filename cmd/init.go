package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/gradlever/pkg/patchconfig"
	"github.com/spf13/cobra"
)

var initForce bool

func newInitCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("init", "Write a .gradlever.toml with the effective settings")
	cmd.Long = `Writes .gradlever.toml in the project root using the current settings
(defaults, grove.yml, environment and flags), so they can be committed.`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .gradlever.toml")
	cmd.RunE = runInit

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, projectRoot, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	path := filepath.Join(projectRoot, patchconfig.FileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", patchconfig.FileName)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", successStyle.Render("✓"), path)
	return nil
}
