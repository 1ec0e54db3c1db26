package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

func writeItem(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(postsDir string) *config.Config {
	return &config.Config{
		BaseURL: "http://x.test",
		Collections: map[string]config.CollectionConfig{
			"posts": {Path: postsDir, Output: "blog"},
		},
	}
}

func TestLoadAll_ParsesItemsWithURLs(t *testing.T) {
	dir := t.TempDir()
	writeItem(t, dir, "first.html", "+++\n{\"title\": \"First\", \"date\": \"2024-01-01\"}\n+++\n<p>hi</p>\n")

	colls, errs := LoadAll(testConfig(dir))
	require.Empty(t, errs)

	posts := colls["posts"]
	require.Len(t, posts.Items, 1)

	item := posts.Items[0]
	require.Equal(t, "First", item.Title())
	require.Equal(t, "/blog/first.html", item.URL)
	require.Equal(t, "http://x.test/blog/first.html", item.CanonicalURL)
	require.Equal(t, "<p>hi</p>\n", item.Content)
	require.NotNil(t, item.Date)
	require.Equal(t, "2024-01-01", item.RawDate)
}

func TestLoadAll_MalformedItemSkipped_OthersRetained(t *testing.T) {
	dir := t.TempDir()
	writeItem(t, dir, "bad.html", "+++\n{\"title\": broken\n+++\n<p>bad</p>\n")
	writeItem(t, dir, "good.html", "+++\n{\"title\": \"Good\"}\n+++\n<p>good</p>\n")

	colls, errs := LoadAll(testConfig(dir))
	require.Len(t, errs, 1)
	require.True(t, siteerr.IsCategory(errs[0], siteerr.CategoryFrontMatter))
	require.False(t, siteerr.IsFatal(errs[0]))
	require.Contains(t, errs[0].Error(), "bad.html")

	require.Len(t, colls["posts"].Items, 1)
	require.Equal(t, "Good", colls["posts"].Items[0].Title())
}

func TestLoadAll_MissingCollectionPath_EmptyCollection(t *testing.T) {
	colls, errs := LoadAll(testConfig(filepath.Join(t.TempDir(), "absent")))
	require.Empty(t, errs)
	require.NotNil(t, colls["posts"])
	require.Empty(t, colls["posts"].Items)
}

func TestLoadAll_UnparsableDate_ItemRetainedWithoutDate(t *testing.T) {
	dir := t.TempDir()
	writeItem(t, dir, "odd.html", "+++\n{\"title\": \"Odd\", \"date\": \"sometime soon\"}\n+++\nbody\n")

	colls, errs := LoadAll(testConfig(dir))
	require.Empty(t, errs)
	require.Len(t, colls["posts"].Items, 1)

	item := colls["posts"].Items[0]
	require.Nil(t, item.Date)
	require.Equal(t, "sometime soon", item.RawDate)
}

func TestLoadAll_DiscoveryOrderDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeItem(t, dir, "c.html", "third\n")
	writeItem(t, dir, "a.html", "first\n")
	writeItem(t, dir, "b.html", "second\n")

	colls, _ := LoadAll(testConfig(dir))
	items := colls["posts"].Items
	require.Len(t, items, 3)
	require.Equal(t, "a.html", items[0].RelativePath)
	require.Equal(t, "b.html", items[1].RelativePath)
	require.Equal(t, "c.html", items[2].RelativePath)
}

func TestSortedByDateDesc_MissingDatesAlwaysLast(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	items := []*Item{
		{SourcePath: "p/jan.html", Date: &jan},
		{SourcePath: "p/undated.html"},
		{SourcePath: "p/mar.html", Date: &mar},
	}

	sorted := SortedByDateDesc(items)
	require.Equal(t, "p/mar.html", sorted[0].SourcePath)
	require.Equal(t, "p/jan.html", sorted[1].SourcePath)
	require.Equal(t, "p/undated.html", sorted[2].SourcePath)

	// Same result regardless of input order.
	reversed := SortedByDateDesc([]*Item{items[2], items[1], items[0]})
	for i := range sorted {
		require.Equal(t, sorted[i].SourcePath, reversed[i].SourcePath)
	}

	// Input slice is untouched.
	require.Equal(t, "p/jan.html", items[0].SourcePath)
}

func TestSortedByDateDesc_TiesBreakLexically(t *testing.T) {
	d := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	items := []*Item{
		{SourcePath: "p/zeta.html", Date: &d},
		{SourcePath: "p/alpha.html", Date: &d},
		{SourcePath: "p/nodate-b.html"},
		{SourcePath: "p/nodate-a.html"},
	}

	sorted := SortedByDateDesc(items)
	require.Equal(t, "p/alpha.html", sorted[0].SourcePath)
	require.Equal(t, "p/zeta.html", sorted[1].SourcePath)
	require.Equal(t, "p/nodate-a.html", sorted[2].SourcePath)
	require.Equal(t, "p/nodate-b.html", sorted[3].SourcePath)
}
