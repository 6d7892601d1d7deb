package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cssinput/internal/highlight"
)

func writeTheme(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadTheme(t *testing.T) {
	t.Run("overrides apply on top of the default theme", func(t *testing.T) {
		theme, err := loadTheme(writeTheme(t, "string: red\ncomment: none\n"))
		require.NoError(t, err)
		assert.Equal(t, color.New(color.FgRed), theme[highlight.String])
		assert.NotContains(t, theme, highlight.Comment)
		// Untouched categories keep their defaults.
		assert.Equal(t, color.New(color.FgMagenta), theme[highlight.IDSelector])
	})

	t.Run("unknown color name fails", func(t *testing.T) {
		_, err := loadTheme(writeTheme(t, "string: mauve\n"))
		assert.ErrorContains(t, err, "mauve")
	})

	t.Run("bad yaml fails", func(t *testing.T) {
		_, err := loadTheme(writeTheme(t, "string: [red\n"))
		assert.Error(t, err)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := loadTheme(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestExpandArgs(t *testing.T) {
	t.Run("plain arguments pass through deduplicated", func(t *testing.T) {
		files, stdin, err := expandArgs([]string{"a.css", "b.css", "a.css"})
		require.NoError(t, err)
		assert.False(t, stdin)
		assert.Equal(t, []string{"a.css", "b.css"}, files)
	})

	t.Run("dash selects stdin", func(t *testing.T) {
		files, stdin, err := expandArgs([]string{"-"})
		require.NoError(t, err)
		assert.True(t, stdin)
		assert.Empty(t, files)
	})

	t.Run("globs expand in first-seen order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"a.css", "b.css", "c.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		files, _, err := expandArgs([]string{filepath.Join(dir, "*.css")})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.css"),
			filepath.Join(dir, "b.css"),
		}, files)
	})

	t.Run("bad pattern fails", func(t *testing.T) {
		_, _, err := expandArgs([]string{"[bad"})
		assert.Error(t, err)
	})
}
