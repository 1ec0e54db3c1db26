package feeds

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
)

// FeedFileName is the RSS feed's location inside the output directory.
const FeedFileName = "feed.xml"

// MaxFeedItems caps the number of entries in the feed.
const MaxFeedItems = 10

// pubDateLayout is the RFC 822 style timestamp RSS 2.0 expects.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// RSSXML renders the RSS 2.0 feed for the given items, already restricted to
// the configured collection and to pages that actually rendered. Entries are
// ordered by date descending (missing dates last), capped at MaxFeedItems.
// Every entry carries title/link/description/pubDate: missing titles become
// "Untitled", missing descriptions fall back to a plain-text excerpt of the
// body (or empty), and undated items use the build timestamp so the feed
// stays schema-valid.
func RSSXML(cfg *config.Config, items []*content.Item, buildTime time.Time) ([]byte, error) {
	channel := rssChannel{
		Title:         cfg.SiteTitle,
		Link:          cfg.BaseURL,
		Description:   cfg.SiteDescription,
		LastBuildDate: buildTime.UTC().Format(pubDateLayout),
	}

	sorted := content.SortedByDateDesc(items)
	if len(sorted) > MaxFeedItems {
		sorted = sorted[:MaxFeedItems]
	}

	for _, item := range sorted {
		title := item.Title()
		if title == "" {
			title = "Untitled"
		}
		description := item.Description()
		if description == "" {
			description = Excerpt(item.Content, 200)
		}
		pubDate := buildTime.UTC()
		if item.Date != nil {
			pubDate = item.Date.UTC()
		}
		channel.Items = append(channel.Items, rssItem{
			Title:       title,
			Link:        item.CanonicalURL,
			GUID:        item.CanonicalURL,
			PubDate:     pubDate.Format(pubDateLayout),
			Description: description,
		})
	}

	body, err := xml.MarshalIndent(rssDoc{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return nil, err
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}

// WriteRSS renders and writes the feed into outputDir, returning the written
// file path. An empty item set still yields a valid, empty channel.
func WriteRSS(cfg *config.Config, items []*content.Item, buildTime time.Time, outputDir string) (string, error) {
	body, err := RSSXML(cfg, items, buildTime)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, FeedFileName)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
