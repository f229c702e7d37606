package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grovetools/core/cli"
	"github.com/grovetools/gradlever/pkg/patcher"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusFormat string

func newStatusCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("status", "Show the patch state of build.gradle")
	cmd.Long = `Reports each patch step as pending, already-applied or not-found, along
with the manifest version and the version code it yields.

Unlike 'check', status always exits zero once the build file can be read.`

	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.Flags().StringVar(&statusFormat, "format", formatTable, "Output format: table, json or yaml")
	cmd.RunE = runStatus

	return cmd
}

type statusReport struct {
	BuildFile string               `json:"build_file" yaml:"build_file"`
	Patched   bool                 `json:"patched" yaml:"patched"`
	Steps     []patcher.StepResult `json:"steps" yaml:"steps"`
	Manifest  manifestInfo         `json:"manifest" yaml:"manifest"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format := resolveFormat(cmd, statusFormat)
	if err := checkFormat(format, formatTable, formatJSON, formatYAML); err != nil {
		return err
	}

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

	report := statusReport{
		BuildFile: cfg.BuildFile,
		Steps:     p.Inspect(string(data)),
		Patched:   true,
	}
	for _, s := range report.Steps {
		if s.Status != patcher.StatusAlreadyApplied {
			report.Patched = false
		}
	}
	report.Manifest, _ = readManifest(cfg, projectRoot)

	if format != formatTable {
		return writeStructured(cmd.OutOrStdout(), format, report)
	}

	renderStatusTable(cmd, report)
	return nil
}

func renderStatusTable(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(report.BuildFile))

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Step", "Status", "Line"})
	for _, s := range report.Steps {
		line := "-"
		if s.Line > 0 {
			line = strconv.Itoa(s.Line)
		}
		t.AppendRow(table.Row{s.Step, renderStatus(s.Status), line})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	m := report.Manifest
	switch {
	case m.Error != "":
		fmt.Fprintf(out, "Manifest: %s\n", errorStyle.Render(m.Error))
	default:
		fmt.Fprintf(out, "Manifest: %s %s = %s (versionCode %d)\n",
			m.File, m.Path, versionStyle.Render(m.Version), m.Code)
	}
}

func renderStatus(s patcher.Status) string {
	switch s {
	case patcher.StatusAlreadyApplied, patcher.StatusApplied:
		return successStyle.Render(string(s))
	case patcher.StatusPending:
		return pendingStyle.Render(string(s))
	default:
		return errorStyle.Render(string(s))
	}
}
