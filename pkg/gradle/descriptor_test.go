package gradle

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no trailing newline", "a\nb"},
		{"trailing newline", "a\nb\n"},
		{"crlf", "a\r\nb\r\n"},
		{"blank lines", "\n\n\n"},
		{"mixed endings", "a\r\nb\nc\r\n"},
		{"lf run inside crlf", "a\nb\nc\r\nd\r\ne"},
		{"lone cr", "a\rb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.content, Parse(tt.content).String())
		})
	}
}

func TestParseDetectsLineEnding(t *testing.T) {
	assert.Equal(t, "\n", Parse("a\nb\n").EOL())
	assert.Equal(t, "\r\n", Parse("a\r\nb\r\n").EOL())
	assert.Equal(t, "\n", Parse("a\nb\nc\r\n").EOL())
}

func TestParseMixedLineEndings(t *testing.T) {
	d := Parse("anchor\nreact {\n}\r\nandroid {\r\n}\r\n")

	require.Equal(t, 6, d.Len())
	assert.Equal(t, []string{"anchor", "react {", "}", "android {", "}", ""}, d.Lines())
	assert.Equal(t, 0, d.FindLine(regexp.MustCompile(`^anchor$`)))
	assert.Equal(t, 2, d.FindLine(regexp.MustCompile(`^\}$`)))
}

func TestFindLine(t *testing.T) {
	d := Parse("apply plugin: 'x'\nversionCode 1\nversionCode 2\n")

	assert.Equal(t, 1, d.FindLine(regexp.MustCompile(`versionCode\s+\d+`)))
	assert.Equal(t, -1, d.FindLine(regexp.MustCompile(`versionName`)))
}

func TestInsertAfter(t *testing.T) {
	t.Run("Middle", func(t *testing.T) {
		d := Parse("a\nb\nc")
		d.InsertAfter(0, "x", "y")
		assert.Equal(t, "a\nx\ny\nb\nc", d.String())
	})

	t.Run("Top", func(t *testing.T) {
		d := Parse("a\nb")
		d.InsertAfter(-1, "x")
		assert.Equal(t, "x\na\nb", d.String())
	})

	t.Run("End", func(t *testing.T) {
		d := Parse("a\nb")
		d.InsertAfter(1, "x")
		assert.Equal(t, "a\nb\nx", d.String())
	})

	t.Run("KeepsLocalLineEnding", func(t *testing.T) {
		d := Parse("anchor\nreact {\n}\r\nandroid {\r\n")
		d.InsertAfter(0, "", "x")
		assert.Equal(t, "anchor\n\nx\nreact {\n}\r\nandroid {\r\n", d.String())

		d.InsertAfter(4, "y")
		assert.Equal(t, "anchor\n\nx\nreact {\n}\r\ny\r\nandroid {\r\n", d.String())
	})

	t.Run("EmptyContent", func(t *testing.T) {
		d := Parse("")
		d.InsertAfter(-1, "x")
		assert.Equal(t, "x\n", d.String())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		d := Parse("a")
		assert.Panics(t, func() { d.InsertAfter(5, "x") })
	})
}

func TestReplaceFirst(t *testing.T) {
	re := regexp.MustCompile(`versionCode\s+\d+`)

	t.Run("OnlyFirstLine", func(t *testing.T) {
		d := Parse("        versionCode 1 // first\n        versionCode 2\n")
		idx, ok := d.ReplaceFirst(re, "versionCode getVersionCode()")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
		assert.Equal(t, "        versionCode getVersionCode() // first\n        versionCode 2\n", d.String())
	})

	t.Run("LiteralReplacement", func(t *testing.T) {
		d := Parse("versionCode 1")
		_, ok := d.ReplaceFirst(re, "versionCode $1")
		require.True(t, ok)
		assert.Equal(t, "versionCode $1", d.String())
	})

	t.Run("NoMatch", func(t *testing.T) {
		d := Parse("versionName \"1.0\"\n")
		idx, ok := d.ReplaceFirst(re, "x")
		assert.False(t, ok)
		assert.Equal(t, -1, idx)
		assert.Equal(t, "versionName \"1.0\"\n", d.String())
	})
}

func TestLinesReturnsCopy(t *testing.T) {
	d := Parse("a\nb")
	lines := d.Lines()
	lines[0] = "z"
	assert.Equal(t, "a", d.Line(0))
	assert.Equal(t, 2, d.Len())
}
