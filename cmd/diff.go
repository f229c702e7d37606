package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 2

// diffHunks groups the line changes between a and b with diffContext lines
// of surrounding context. Auto-junk is off so blank lines and lone braces,
// which are common in build files, still anchor the match.
func diffHunks(a, b []string) [][]difflib.OpCode {
	return difflib.NewMatcherWithJunk(a, b, false, nil).GetGroupedOpCodes(diffContext)
}

// printDiff writes the changed hunks between original and updated to w.
// Colors are used only when w is a terminal.
func printDiff(w io.Writer, original, updated string) {
	color := isTerminal(w)
	render := func(style lipgloss.Style, s string) string {
		if color {
			return style.Render(s)
		}
		return s
	}

	a, b := splitLines(original), splitLines(updated)
	for _, group := range diffHunks(a, b) {
		first := group[0]
		fmt.Fprintln(w, render(hunkStyle, fmt.Sprintf("@@ -%d +%d @@", first.I1+1, first.J1+1)))

		for _, op := range group {
			if op.Tag == 'e' {
				for _, line := range a[op.I1:op.I2] {
					fmt.Fprintln(w, " "+line)
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for _, line := range a[op.I1:op.I2] {
					fmt.Fprintln(w, render(removedStyle, "-"+line))
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, line := range b[op.J1:op.J2] {
					fmt.Fprintln(w, render(addedStyle, "+"+line))
				}
			}
		}
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
