package feeds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/hooks"
	"git.home.luguber.info/inful/sitegen/internal/content"
)

func TestSitemapXML_LexicalOrderRegardlessOfRenderOrder(t *testing.T) {
	pages := []hooks.PageInfo{
		{CanonicalURL: "http://x.test/b.html"},
		{CanonicalURL: "http://x.test/a.html"},
	}

	out, err := SitemapXML(pages)
	require.NoError(t, err)

	s := string(out)
	a := strings.Index(s, "http://x.test/a.html")
	b := strings.Index(s, "http://x.test/b.html")
	require.Greater(t, a, -1)
	require.Greater(t, b, -1)
	require.Less(t, a, b)
}

func TestSitemapXML_EachURLExactlyOnce(t *testing.T) {
	pages := []hooks.PageInfo{
		{CanonicalURL: "http://x.test/a.html"},
		{CanonicalURL: "http://x.test/a.html"},
	}

	out, err := SitemapXML(pages)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(out), "http://x.test/a.html"))
}

func TestWriteSitemap_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSitemap(dir, []hooks.PageInfo{{CanonicalURL: "http://x.test/a.html"}})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, SitemapFileName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "<urlset")
	require.Contains(t, string(raw), "<loc>http://x.test/a.html</loc>")
}

func feedConfig() *config.Config {
	return &config.Config{
		SiteTitle:       "Feed Site",
		SiteDescription: "about things",
		BaseURL:         "http://x.test",
	}
}

func datedItem(path, raw string, title string) *content.Item {
	ts, _ := time.Parse("2006-01-02", raw)
	return &content.Item{
		SourcePath:   path,
		CanonicalURL: "http://x.test/" + path,
		FrontMatter:  map[string]any{"title": title, "date": raw},
		Date:         &ts,
		RawDate:      raw,
	}
}

func TestRSSXML_DateDescendingCappedAndValid(t *testing.T) {
	var items []*content.Item
	items = append(items, datedItem("old.html", "2023-01-01", "Old"))
	for i := 0; i < MaxFeedItems; i++ {
		items = append(items, datedItem("p"+string(rune('a'+i))+".html", "2024-06-01", "Post"))
	}

	out, err := RSSXML(feedConfig(), items, time.Now())
	require.NoError(t, err)

	s := string(out)
	require.Equal(t, MaxFeedItems, strings.Count(s, "<item>"))
	// The oldest entry falls off the capped feed.
	require.NotContains(t, s, "old.html")
	require.Contains(t, s, "<title>Feed Site</title>")
}

func TestRSSXML_FallbacksKeepFeedSchemaValid(t *testing.T) {
	build := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	item := &content.Item{
		SourcePath:   "p/plain.html",
		CanonicalURL: "http://x.test/blog/plain.html",
		FrontMatter:  map[string]any{},
		Content:      "<p>Some <b>bold</b> body text.</p>",
	}

	out, err := RSSXML(feedConfig(), []*content.Item{item}, build)
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, "<title>Untitled</title>")
	require.Contains(t, s, "Some bold body text.")
	require.Contains(t, s, "Mon, 01 Jul 2024 12:00:00 +0000")
	require.Contains(t, s, "<guid>http://x.test/blog/plain.html</guid>")
}

func TestRSSXML_EmptyItems_EmptyChannel(t *testing.T) {
	out, err := RSSXML(feedConfig(), nil, time.Now())
	require.NoError(t, err)
	require.NotContains(t, string(out), "<item>")
	require.Contains(t, string(out), "<channel>")
}

func TestWriteRSS_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteRSS(feedConfig(), nil, time.Now(), dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, FeedFileName), path)
}

func TestExcerpt_StripsTagsAndCaps(t *testing.T) {
	got := Excerpt("<p>Hello <em>world</em></p>", 200)
	require.Equal(t, "Hello world", got)

	long := strings.Repeat("a", 300)
	capped := Excerpt("<p>"+long+"</p>", 200)
	require.Equal(t, 203, len([]rune(capped)))
	require.True(t, strings.HasSuffix(capped, "..."))
}

func TestExcerpt_EmptyFragment(t *testing.T) {
	require.Equal(t, "", Excerpt("", 200))
}
