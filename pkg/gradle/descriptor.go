// Package gradle provides a line-oriented model of a Gradle build descriptor.
//
// The model does not parse Groovy. It splits the file into lines, lets callers
// locate and edit individual lines, and serializes back without touching any
// line that was not edited.
package gradle

import (
	"regexp"
	"strings"
)

// Descriptor is a build descriptor held as a slice of lines. Each line keeps
// its own terminator so files with mixed line endings round-trip unchanged.
type Descriptor struct {
	lines []string
	ends  []string
	eol   string
}

// Parse splits content into lines on LF. A CR before the LF belongs to the
// line ending, not to the line.
func Parse(content string) *Descriptor {
	parts := strings.Split(content, "\n")
	d := &Descriptor{
		lines: make([]string, len(parts)),
		ends:  make([]string, len(parts)),
	}

	crlf, lf := 0, 0
	for i, part := range parts {
		if i == len(parts)-1 {
			d.lines[i] = part
			break
		}
		if strings.HasSuffix(part, "\r") {
			d.lines[i] = strings.TrimSuffix(part, "\r")
			d.ends[i] = "\r\n"
			crlf++
		} else {
			d.lines[i] = part
			d.ends[i] = "\n"
			lf++
		}
	}

	d.eol = "\n"
	if crlf > lf {
		d.eol = "\r\n"
	}
	return d
}

// String joins the lines back together, each with its original ending.
func (d *Descriptor) String() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		b.WriteString(d.ends[i])
	}
	return b.String()
}

// EOL returns the predominant line ending, LF on a tie.
func (d *Descriptor) EOL() string {
	return d.eol
}

// Len returns the number of lines. A trailing newline produces a final
// empty line.
func (d *Descriptor) Len() int {
	return len(d.lines)
}

// Line returns the line at index i.
func (d *Descriptor) Line(i int) string {
	return d.lines[i]
}

// Lines returns a copy of all lines.
func (d *Descriptor) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// FindLine returns the index of the first line matching re, or -1.
func (d *Descriptor) FindLine(re *regexp.Regexp) int {
	for i, line := range d.lines {
		if re.MatchString(line) {
			return i
		}
	}
	return -1
}

// InsertAfter inserts lines after the line at index. An index of -1 inserts
// at the top of the file. Inserted lines take the ending of the line at
// index, so a block added inside an LF region stays LF.
func (d *Descriptor) InsertAfter(index int, lines ...string) {
	if index < -1 || index >= len(d.lines) {
		panic("gradle: InsertAfter index out of range")
	}
	if len(lines) == 0 {
		return
	}

	eol := d.eol
	if index >= 0 && d.ends[index] != "" {
		eol = d.ends[index]
	}
	ends := make([]string, len(lines))
	for i := range ends {
		ends[i] = eol
	}
	if index >= 0 && d.ends[index] == "" {
		// index was the unterminated last line
		d.ends[index] = eol
		ends[len(ends)-1] = ""
	}

	at := index + 1
	d.lines = splice(d.lines, at, lines)
	d.ends = splice(d.ends, at, ends)
}

func splice(dst []string, at int, src []string) []string {
	merged := make([]string, 0, len(dst)+len(src))
	merged = append(merged, dst[:at]...)
	merged = append(merged, src...)
	return append(merged, dst[at:]...)
}

// ReplaceFirst replaces the first match of re with repl on the first line that
// matches. repl is inserted literally. It returns the index of the edited
// line and whether a replacement was made.
func (d *Descriptor) ReplaceFirst(re *regexp.Regexp, repl string) (int, bool) {
	for i, line := range d.lines {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		d.lines[i] = line[:loc[0]] + repl + line[loc[1]:]
		return i, true
	}
	return -1, false
}

// Contains reports whether substr occurs anywhere in the descriptor.
func (d *Descriptor) Contains(substr string) bool {
	return strings.Contains(d.String(), substr)
}
