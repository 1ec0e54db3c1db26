package sitedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_MissingDirectory_ReturnsEmptyMap(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Empty(t, data)
}

func TestLoad_NestsKeysByDirectoryAndStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "site.json", `{"name": "sitegen"}`)
	writeFile(t, dir, "social/links.json", `[{"label": "home"}]`)

	data, err := Load(dir)
	require.NoError(t, err)

	site, ok := data["site"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "sitegen", site["name"])

	social, ok := data["social"].(map[string]any)
	require.True(t, ok)
	links, ok := social["links"].([]any)
	require.True(t, ok)
	require.Len(t, links, 1)
}

func TestLoad_LeafVersusSubtreeCollision_Fatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b.json", `{"x": 1}`)
	writeFile(t, dir, "a/b/index.json", `{"y": 2}`)

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, siteerr.IsCategory(err, siteerr.CategoryData))
	require.True(t, siteerr.IsFatal(err))
	require.Contains(t, err.Error(), "a.b")
}

func TestLoad_ObjectLeafNotMergedBySubtreeFile_Fatal(t *testing.T) {
	dir := t.TempDir()
	// a.json decodes to a map, the same shape as a loader-created subtree
	// node. A later file passing through that key must still collide, not
	// merge into the decoded object.
	writeFile(t, dir, "a.json", `{"b": 1}`)
	writeFile(t, dir, "a/c.json", `{"y": 2}`)

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, siteerr.IsCategory(err, siteerr.CategoryData))
	require.True(t, siteerr.IsFatal(err))
	require.Contains(t, err.Error(), `"a"`)
	require.Contains(t, err.Error(), "a.json")
	require.Contains(t, err.Error(), filepath.Join("a", "c.json"))
}

func TestLoad_DistinctPaths_NeverCollide(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b.json", `1`)
	writeFile(t, dir, "a/c.json", `2`)
	writeFile(t, dir, "d.json", `3`)

	data, err := Load(dir)
	require.NoError(t, err)
	a := data["a"].(map[string]any)
	require.Equal(t, float64(1), a["b"])
	require.Equal(t, float64(2), a["c"])
	require.Equal(t, float64(3), data["d"])
}

func TestLoad_InvalidJSON_Fatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json}`)

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, siteerr.IsCategory(err, siteerr.CategoryData))
	require.True(t, siteerr.IsFatal(err))
}

func TestLoad_IgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "ok.json", `true`)

	data, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, true, data["ok"])
	require.NotContains(t, data, "notes")
}
