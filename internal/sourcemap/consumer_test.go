package sourcemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cssinput/internal/sourcemap"
)

// testMap maps generated line 2, column 5 (1-based) to a.sass line 10,
// column 3. The VLQ segment "IASE" decodes to [4, 0, 9, 2].
const testMap = `{
	"version": 3,
	"file": "app.css",
	"sourceRoot": "",
	"sources": ["a.sass"],
	"sourcesContent": ["a\n  color: black"],
	"names": [],
	"mappings": ";IASE"
}`

func TestParse(t *testing.T) {
	t.Run("valid map", func(t *testing.T) {
		m, err := sourcemap.Parse([]byte(testMap))
		require.NoError(t, err)
		assert.Equal(t, "app.css", m.File())
		assert.Equal(t, "", m.SourceRoot())
		assert.True(t, m.WithContent())
	})

	t.Run("jsonc payload with comments", func(t *testing.T) {
		jsonc := "{\n// generated\n\"version\":3,\"sources\":[\"a.sass\"],\"names\":[],\"mappings\":\";IASE\"}"
		m, err := sourcemap.Parse([]byte(jsonc))
		require.NoError(t, err)
		assert.False(t, m.WithContent())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := sourcemap.Parse([]byte("not a map"))
		assert.Error(t, err)
	})
}

func TestOriginalPosition(t *testing.T) {
	m, err := sourcemap.Parse([]byte(testMap))
	require.NoError(t, err)

	t.Run("mapped position", func(t *testing.T) {
		mapping, ok := m.OriginalPosition(2, 5)
		require.True(t, ok)
		assert.Equal(t, "a.sass", mapping.Source)
		assert.Equal(t, 10, mapping.Line)
		assert.Equal(t, 3, mapping.Column)
	})

	t.Run("position before any mapping", func(t *testing.T) {
		_, ok := m.OriginalPosition(1, 1)
		assert.False(t, ok, "line 1 has no mapping")
	})
}

func TestSourceContent(t *testing.T) {
	m, err := sourcemap.Parse([]byte(testMap))
	require.NoError(t, err)

	content, ok := m.SourceContent("a.sass")
	require.True(t, ok)
	assert.Equal(t, "a\n  color: black", content)

	_, ok = m.SourceContent("missing.sass")
	assert.False(t, ok)
}
