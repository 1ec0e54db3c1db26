package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Crème Brûlée!", "creme-brulee"},
		{"Go 1.24 Released", "go-1-24-released"},
		{"---", ""},
		{"ALL CAPS", "all-caps"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slug(tc.title), "title %q", tc.title)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Collections: map[string]config.CollectionConfig{
			"posts": {Path: filepath.Join(t.TempDir(), "posts"), Output: "blog"},
		},
	}
}

func TestCreateItem_WritesParsableFrontMatter(t *testing.T) {
	cfg := testConfig(t)

	path, err := CreateItem(cfg, Options{
		Collection: "posts",
		Title:      "My First Post",
		Layout:     "post.html",
		Now:        time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "my-first-post.html", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	fields, _, err := frontmatter.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "My First Post", fields["title"])
	require.Equal(t, "2026-08-26", fields["date"])
	require.Equal(t, "post.html", fields["layout"])
}

func TestCreateItem_NeverOverwrites(t *testing.T) {
	cfg := testConfig(t)
	opts := Options{Collection: "posts", Title: "Same Title"}

	_, err := CreateItem(cfg, opts)
	require.NoError(t, err)

	_, err = CreateItem(cfg, opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestCreateItem_UnknownCollection(t *testing.T) {
	cfg := testConfig(t)
	_, err := CreateItem(cfg, Options{Collection: "essays", Title: "Nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "essays")
}

func TestCreateItem_EmptySlugRefused(t *testing.T) {
	cfg := testConfig(t)
	_, err := CreateItem(cfg, Options{Collection: "posts", Title: "!!!"})
	require.Error(t, err)
}
