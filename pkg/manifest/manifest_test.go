package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appJSON = `{
  "expo": {
    "name": "listow",
    "slug": "listow",
    "version": "0.0.1",
    "orientation": "portrait"
  }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExpoHandler(t *testing.T) {
	t.Run("GetVersion", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "app.json", appJSON)

		h := NewExpoHandler()
		assert.True(t, h.HasManifestFile(dir))

		version, err := h.GetVersion(dir)
		require.NoError(t, err)
		assert.Equal(t, "0.0.1", version)
	})

	t.Run("SetVersionPreservesLayout", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.json", appJSON)

		h := NewExpoHandler()
		require.NoError(t, h.SetVersion(dir, "0.1.0"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{
  "expo": {
    "name": "listow",
    "slug": "listow",
    "version": "0.1.0",
    "orientation": "portrait"
  }
}
`, string(data))
	})

	t.Run("MissingVersion", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "app.json", `{"expo": {"name": "x"}}`)

		_, err := NewExpoHandler().GetVersion(dir)
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("NonStringVersion", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "app.json", `{"expo": {"version": 3}}`)

		_, err := NewExpoHandler().GetVersion(dir)
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "app.json", `{"expo": `)

		_, err := NewExpoHandler().GetVersion(dir)
		assert.Error(t, err)
		assert.Error(t, NewExpoHandler().SetVersion(dir, "1.0.0"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		dir := t.TempDir()
		h := NewExpoHandler()
		assert.False(t, h.HasManifestFile(dir))

		_, err := h.GetVersion(dir)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestNodeHandler(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "listow", "version": "1.2.3"}`)

	h := NewNodeHandler()
	version, err := h.GetVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)

	require.NoError(t, h.SetVersion(dir, "1.2.4"))
	version, err = h.GetVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", version)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("Get", func(t *testing.T) {
		h, err := r.Get(TypeExpo)
		require.NoError(t, err)
		assert.Equal(t, "app.json", h.ManifestFile())
		assert.Equal(t, "expo.version", h.VersionPath())

		_, err = r.Get("cargo")
		assert.Error(t, err)
	})

	t.Run("DetectPrefersExpo", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)
		writeFile(t, dir, "app.json", appJSON)

		typ, h, err := r.Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, TypeExpo, typ)
		assert.Equal(t, "app.json", h.ManifestFile())
	})

	t.Run("DetectNode", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)

		typ, _, err := r.Detect(dir)
		require.NoError(t, err)
		assert.Equal(t, TypeNode, typ)
	})

	t.Run("DetectNone", func(t *testing.T) {
		_, _, err := r.Detect(t.TempDir())
		assert.ErrorIs(t, err, ErrNoManifest)
	})

	assert.Equal(t, []Type{TypeExpo, TypeNode}, r.Types())
}
