package csserror_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cssinput/internal/csserror"
)

func TestMessage(t *testing.T) {
	t.Run("file, position and reason", func(t *testing.T) {
		e := csserror.New("Unclosed block", 2, 5, "a {\n", "/a.css", "")
		assert.Equal(t, "/a.css:2:5: Unclosed block", e.Error())
		assert.Equal(t, e.Message, e.Error())
	})

	t.Run("plugin prefix", func(t *testing.T) {
		e := csserror.New("Unknown word", 1, 1, "asdf", "/a.css", "linter")
		assert.Equal(t, "linter: /a.css:1:1: Unknown word", e.Error())
	})

	t.Run("anonymous input", func(t *testing.T) {
		e := csserror.New("Unclosed block", 1, 3, "a {", "", "")
		assert.Equal(t, "<css input>:1:3: Unclosed block", e.Error())
	})

	t.Run("no position", func(t *testing.T) {
		e := csserror.New("Broken map", 0, 0, "", "/a.css", "")
		assert.Equal(t, "/a.css: Broken map", e.Error())
	})
}

func TestShowSourceCode(t *testing.T) {
	t.Run("window around the error line", func(t *testing.T) {
		e := csserror.New("Unknown word", 3, 3,
			"a {\n  color: x;\n  bad\n}", "/a.css", "")
		assert.Equal(t, strings.Join([]string{
			"  1 | a {",
			"  2 |   color: x;",
			"> 3 |   bad",
			"    |   ^",
			"  4 | }",
		}, "\n"), e.ShowSourceCode(false))
	})

	t.Run("window is clipped at the edges", func(t *testing.T) {
		e := csserror.New("Unknown word", 1, 1, "bad\na {\n}", "/a.css", "")
		assert.Equal(t, strings.Join([]string{
			"> 1 | bad",
			"    | ^",
			"  2 | a {",
			"  3 | }",
		}, "\n"), e.ShowSourceCode(false))
	})

	t.Run("last line", func(t *testing.T) {
		e := csserror.New("Unclosed block", 2, 4, "a {\n  b", "/a.css", "")
		assert.Equal(t, strings.Join([]string{
			"  1 | a {",
			"> 2 |   b",
			"    |    ^",
		}, "\n"), e.ShowSourceCode(false))
	})

	t.Run("tabs keep their width", func(t *testing.T) {
		e := csserror.New("Unknown word", 1, 2, "\tbad", "/a.css", "")
		assert.Equal(t, strings.Join([]string{
			"> 1 | \tbad",
			"    | \t^",
		}, "\n"), e.ShowSourceCode(false))
	})

	t.Run("wide glyphs pad by display width", func(t *testing.T) {
		e := csserror.New("Unknown word", 1, 3, "日本bad", "/a.css", "")
		lines := strings.Split(e.ShowSourceCode(false), "\n")
		require.Len(t, lines, 2)
		// Two double-width runes occupy four cells before the caret.
		assert.Equal(t, "    |     ^", lines[1])
	})

	t.Run("empty source renders nothing", func(t *testing.T) {
		e := csserror.New("Broken map", 1, 1, "", "/a.css", "")
		assert.Empty(t, e.ShowSourceCode(true))
	})

	t.Run("colored output strips back to the plain excerpt", func(t *testing.T) {
		prev := color.NoColor
		color.NoColor = false
		defer func() { color.NoColor = prev }()

		e := csserror.New("Unknown word", 3, 3,
			"a {\n  color: x;\n  bad\n}", "/a.css", "")
		colored := e.ShowSourceCode(true)
		assert.Contains(t, colored, "\x1b[31;1m>")
		assert.Contains(t, colored, "\x1b[31;1m^")

		ansi := regexp.MustCompile("\x1b\\[[0-9;]*m")
		assert.Equal(t, e.ShowSourceCode(false), ansi.ReplaceAllString(colored, ""))
	})
}
