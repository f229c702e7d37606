package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/core/logging"
	"github.com/grovetools/gradlever/pkg/patcher"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var patchDryRun bool

func newPatchCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("patch", "Patch build.gradle to read its version from the manifest")
	cmd.Long = `Inserts getAppVersion() and getVersionCode() after the projectRoot
definition in build.gradle, then rewrites the versionCode and versionName
literals to call them.

The version code is major*10000 + minor*100 + patch, so "1.2.3" becomes 10203.

Every step must either apply or already be applied. If the anchor line or one
of the literals cannot be found, nothing is written and the command fails.
Running the command on an already patched file is a no-op.

Examples:
  gradlever patch
  gradlever patch --dry-run
  gradlever patch --project-root ./mobile --backup`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "Show the changes without writing the build file")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPatch(cmd, patchDryRun)
	}

	return cmd
}

func runPatch(cmd *cobra.Command, dryRun bool) error {
	logger := cli.GetLogger(cmd)
	pretty := logging.NewPrettyLogger()
	out := cmd.OutOrStdout()

	cfg, projectRoot, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	opts := cfg.PatchOptions(dryRun)
	p, err := patcher.New(opts)
	if err != nil {
		return err
	}

	path := cfg.BuildFilePath(projectRoot)
	logger.WithFields(logrus.Fields{
		"path":     path,
		"manifest": opts.ManifestFile,
		"dry_run":  dryRun,
	}).Debug("Patching build file")

	result, err := p.PatchFile(path)
	if err != nil {
		if result != nil {
			for _, s := range result.Steps {
				if s.Status == patcher.StatusNotFound || s.Status == patcher.StatusConflict {
					logger.WithFields(logrus.Fields{"path": path, "step": s.Step}).Error("Patch step found no target")
				}
			}
		}
		return err
	}

	name := filepath.Base(path)

	if dryRun {
		if !result.Changed {
			pretty.InfoPretty(fmt.Sprintf("%s is already patched; nothing to do.", name))
			return nil
		}
		fmt.Fprintf(out, "%s\n", headerStyle.Render(fmt.Sprintf("Changes to %s (dry run)", name)))
		printDiff(out, result.Original, result.Content)
		return nil
	}

	if !result.Changed {
		pretty.InfoPretty(fmt.Sprintf("%s is already patched; nothing to do.", name))
		return nil
	}

	fmt.Fprintf(out, "%s %s updated successfully!\n", successStyle.Render("✓"), name)
	fmt.Fprintf(out, "   - versionCode will be calculated from %s\n", opts.ManifestFile)
	fmt.Fprintf(out, "   - versionName will be read from %s\n", opts.ManifestFile)
	if cfg.Backup {
		fmt.Fprintf(out, "   - previous version saved to %s\n", faintStyle.Render(patcher.BackupPath(name)))
	}
	return nil
}
