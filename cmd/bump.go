package cmd

import (
	"fmt"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/gradlever/pkg/versioncode"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var bumpDryRun bool

func newBumpCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("bump", "Bump the version in the manifest")
	cmd.Use = "bump <major|minor|patch|X.Y.Z>"
	cmd.Long = `Updates the version string in the manifest (app.json by default).

The new version must convert to a valid Android version code: minor and
patch must stay below 100.

Examples:
  gradlever bump patch     # 0.0.1 -> 0.0.2
  gradlever bump minor     # 0.0.9 -> 0.1.0
  gradlever bump 1.0.0`

	cmd.Args = cobra.ExactArgs(1)
	cmd.SilenceUsage = true
	cmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "Show the new version without writing the manifest")
	cmd.RunE = runBump

	return cmd
}

func runBump(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	out := cmd.OutOrStdout()

	cfg, projectRoot, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	h, err := cfg.Handler()
	if err != nil {
		return err
	}

	current, err := h.GetVersion(projectRoot)
	if err != nil {
		return err
	}

	next, err := versioncode.Bump(current, args[0])
	if err != nil {
		return err
	}
	code, err := versioncode.Compute(next)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"manifest": h.ManifestFile(),
		"from":     current,
		"to":       next,
		"code":     code,
	}).Debug("Bumping manifest version")

	if bumpDryRun {
		fmt.Fprintf(out, "[dry-run] Would update %s: %s -> %s (versionCode %d)\n",
			h.ManifestFile(), current, versionStyle.Render(next), code)
		return nil
	}

	if err := h.SetVersion(projectRoot, next); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s: %s -> %s (versionCode %d)\n",
		successStyle.Render("✓"), h.ManifestFile(), current, versionStyle.Render(next), code)
	return nil
}
