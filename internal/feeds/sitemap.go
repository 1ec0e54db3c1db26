// Package feeds emits the sitemap and RSS feed from the rendered-output
// records of a completed build.
package feeds

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/sitegen/hooks"
)

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapFileName is the sitemap's location inside the output directory.
const SitemapFileName = "sitemap.xml"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// SitemapXML renders the sitemap for the given page records. Each URL
// appears exactly once, in lexical order regardless of render order.
func SitemapXML(pages []hooks.PageInfo) ([]byte, error) {
	seen := make(map[string]bool, len(pages))
	locs := make([]string, 0, len(pages))
	for _, page := range pages {
		if seen[page.CanonicalURL] {
			continue
		}
		seen[page.CanonicalURL] = true
		locs = append(locs, page.CanonicalURL)
	}
	sort.Strings(locs)

	set := sitemapURLSet{Xmlns: sitemapXmlns}
	for _, loc := range locs {
		set.URLs = append(set.URLs, sitemapURL{Loc: loc})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}

// WriteSitemap renders and writes the sitemap into outputDir, returning the
// written file path.
func WriteSitemap(outputDir string, pages []hooks.PageInfo) (string, error) {
	body, err := SitemapXML(pages)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, SitemapFileName)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
