package sourcemap_test

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cssinput/internal/sourcemap"
)

func TestNewPrevMapExplicit(t *testing.T) {
	t.Run("payload wins over discovery", func(t *testing.T) {
		p, err := sourcemap.NewPrevMap("a{}", sourcemap.PrevMapOptions{
			Payload: []byte(testMap),
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "app.css", p.Consumer().File())
	})

	t.Run("invalid payload errors", func(t *testing.T) {
		_, err := sourcemap.NewPrevMap("a{}", sourcemap.PrevMapOptions{
			Payload: []byte("nonsense"),
		})
		assert.Error(t, err)
	})

	t.Run("disabled suppresses lookup", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=data:application/json;base64," +
			base64.StdEncoding.EncodeToString([]byte(testMap)) + " */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{Disabled: true})
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestNewPrevMapInline(t *testing.T) {
	t.Run("base64 data URI", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=data:application/json;base64," +
			base64.StdEncoding.EncodeToString([]byte(testMap)) + " */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.Inline)
		assert.Equal(t, "app.css", p.Consumer().File())
	})

	t.Run("base64 with charset", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=data:application/json;charset=utf-8;base64," +
			base64.StdEncoding.EncodeToString([]byte(testMap)) + " */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{})
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("URL-encoded data URI", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=data:application/json," +
			url.PathEscape(testMap) + " */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "app.css", p.Consumer().File())
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=data:application/json;uuencode,whatever */"
		_, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{})
		assert.Error(t, err)
	})

	t.Run("last annotation wins", func(t *testing.T) {
		css := "/*# sourceMappingURL=old.map */\na{}\n" +
			"/*# sourceMappingURL=data:application/json;base64," +
			base64.StdEncoding.EncodeToString([]byte(testMap)) + " */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.Inline)
	})
}

func TestNewPrevMapExternal(t *testing.T) {
	t.Run("annotation next to the css file", func(t *testing.T) {
		dir := t.TempDir()
		mapPath := filepath.Join(dir, "app.css.map")
		require.NoError(t, os.WriteFile(mapPath, []byte(testMap), 0o644))

		css := "a{}\n/*# sourceMappingURL=app.css.map */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{
			From: filepath.Join(dir, "app.css"),
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.Inline)
		assert.Equal(t, "app.css.map", p.Annotation)
		assert.Equal(t, "app.css", p.Consumer().File())
	})

	t.Run("missing file means no map", func(t *testing.T) {
		css := "a{}\n/*# sourceMappingURL=gone.css.map */"
		p, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{
			From: filepath.Join(t.TempDir(), "app.css"),
		})
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestNewPrevMapAbsent(t *testing.T) {
	p, err := sourcemap.NewPrevMap("a{ color: black }", sourcemap.PrevMapOptions{})
	require.NoError(t, err)
	assert.Nil(t, p)
}
