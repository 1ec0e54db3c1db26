// Package scaffold creates new collection items with a front-matter block
// filled in, so authors start from a valid file instead of a blank one.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// Slug converts a title into a lowercase, ascii-safe file stem. Accented
// letters fold to their base form; anything that is not a letter or digit
// becomes a single hyphen.
func Slug(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastHyphen := true // leading separators are dropped
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Options control the generated item.
type Options struct {
	Collection string
	Title      string
	Layout     string
	Now        time.Time
}

// CreateItem writes a new content file into the collection's source
// directory and returns its path. An existing file with the same slug is
// never overwritten.
func CreateItem(cfg *config.Config, opts Options) (string, error) {
	coll, ok := cfg.Collections[opts.Collection]
	if !ok {
		return "", siteerr.New(siteerr.CategoryConfig, siteerr.SeverityFatal,
			fmt.Sprintf("unknown collection %q", opts.Collection))
	}
	if strings.TrimSpace(opts.Title) == "" {
		return "", siteerr.New(siteerr.CategoryConfig, siteerr.SeverityFatal,
			"a title is required to create content")
	}

	slug := Slug(opts.Title)
	if slug == "" {
		return "", siteerr.New(siteerr.CategoryConfig, siteerr.SeverityFatal,
			fmt.Sprintf("title %q produces an empty slug", opts.Title))
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	fields := map[string]any{
		"title": opts.Title,
		"date":  now.Format("2006-01-02"),
	}
	if opts.Layout != "" {
		fields["layout"] = opts.Layout
	}

	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true}
	block, err := frontmatter.SerializeJSON(fields, style)
	if err != nil {
		return "", siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityFatal, "serialize front matter")
	}
	contents := frontmatter.Join(block, []byte("\n"), true, style)

	if err := os.MkdirAll(coll.Path, 0o755); err != nil {
		return "", siteerr.Wrap(err, siteerr.CategoryCopy, siteerr.SeverityFatal, "create collection directory")
	}

	path := filepath.Join(coll.Path, slug+".html")
	if _, err := os.Stat(path); err == nil {
		return "", siteerr.New(siteerr.CategoryConfig, siteerr.SeverityFatal,
			fmt.Sprintf("content file already exists: %s", path))
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return "", siteerr.Wrap(err, siteerr.CategoryCopy, siteerr.SeverityFatal, "write content file")
	}
	return path, nil
}
