package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/gradlever/pkg/patcher"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newCheckCmd creates the 'gradlever check' command.
func newCheckCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("check", "Verify that build.gradle is patched and the manifest version is valid")
	cmd.Long = `Checks, without writing anything, that:
- the version block is present in build.gradle
- versionCode calls getVersionCode()
- versionName calls getAppVersion()
- the manifest version converts to a valid version code

Exits non-zero if any check fails. Intended for CI.`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.RunE = runCheck

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	out := cmd.OutOrStdout()

	cfg, projectRoot, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	p, err := patcher.New(cfg.PatchOptions(false))
	if err != nil {
		return err
	}

	path := cfg.BuildFilePath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read build file: %w", err)
	}

	var problems []string
	for _, s := range p.Inspect(string(data)) {
		if s.Status == patcher.StatusAlreadyApplied {
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓"), s.Step)
			continue
		}
		logger.WithFields(logrus.Fields{"step": s.Step, "status": s.Status, "line": s.Line}).Debug("Step not applied")
		fmt.Fprintf(out, "%s %s: %s\n", errorStyle.Render("✗"), s.Step, s.Status)
		problems = append(problems, fmt.Sprintf("%s is %s", s.Step, s.Status))
	}

	info, err := readManifest(cfg, projectRoot)
	if err != nil {
		fmt.Fprintf(out, "%s manifest: %s\n", errorStyle.Render("✗"), err)
		problems = append(problems, "manifest: "+err.Error())
	} else {
		fmt.Fprintf(out, "%s manifest: %s = %s (versionCode %d)\n",
			successStyle.Render("✓"), info.Path, versionStyle.Render(info.Version), info.Code)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s check failed: %s", filepath.Base(path), strings.Join(problems, "; "))
	}
	return nil
}
