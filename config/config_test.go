package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site_title: \"Test Site\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Test Site", cfg.SiteTitle)
	require.Equal(t, "./public", cfg.OutputDir)
	require.Equal(t, "./pages", cfg.PagesDir)
	require.Equal(t, "./templates", cfg.TemplatesDir)
	require.Equal(t, "posts", cfg.RSSCollection)
	require.Equal(t, path, cfg.ConfigPath)
}

func TestLoad_ParsesCollections(t *testing.T) {
	path := writeConfig(t, `
base_url: "http://x.test"
collections:
  posts:
    path: "./posts"
    output: "blog"
  notes:
    path: "./notes"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./posts", cfg.Collections["posts"].Path)
	require.Equal(t, "blog", cfg.Collections["posts"].Output)
	// Output falls back to the collection name.
	require.Equal(t, "notes", cfg.Collections["notes"].Output)
	require.Equal(t, []string{"notes", "posts"}, cfg.CollectionNames())
}

func TestLoad_MissingFile_Fails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_CollectionWithoutPath_Fails(t *testing.T) {
	path := writeConfig(t, `
collections:
  posts: {}
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RelativeBaseURL_Fails(t *testing.T) {
	path := writeConfig(t, "base_url: \"example.com\"\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SITEGEN_TEST_BASE", "http://env.test")
	path := writeConfig(t, "base_url: \"${SITEGEN_TEST_BASE}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://env.test", cfg.BaseURL)
}

func TestWatchRoots_IncludesCollectionsAndOptionalDirs(t *testing.T) {
	path := writeConfig(t, `
data_dir: "./_data"
plugins_dir: "./plugins"
collections:
  posts:
    path: "./posts"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	roots := cfg.WatchRoots()
	require.Contains(t, roots, "./pages")
	require.Contains(t, roots, "./templates")
	require.Contains(t, roots, "./_data")
	require.Contains(t, roots, "./plugins")
	require.Contains(t, roots, "./posts")
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := writeConfig(t, "site_title: existing\n")

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Static Site", cfg.SiteTitle)
}
