package cmd

import (
	"fmt"

	"github.com/grovetools/core/cli"
	"github.com/spf13/cobra"
)

var codeFormat string

func newCodeCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("code", "Print the version name and the version code it yields")
	cmd.Long = `Reads the version from the manifest and prints the versionName and
versionCode Gradle will use once build.gradle is patched.

Example:
  $ gradlever code
  versionName 1.2.3
  versionCode 10203`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.Flags().StringVar(&codeFormat, "format", formatText, "Output format: text, json or yaml")
	cmd.RunE = runCode

	return cmd
}

func runCode(cmd *cobra.Command, args []string) error {
	format := resolveFormat(cmd, codeFormat)
	if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
		return err
	}

	cfg, projectRoot, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	info, err := readManifest(cfg, projectRoot)
	if err != nil {
		return err
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, info)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "versionName %s\nversionCode %d\n", info.Version, info.Code)
	return nil
}
