// Package content discovers and parses collection items: directory-backed
// groups of content files sharing a layout and output pattern.
package content

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/urls"
)

// Item is one parsed content file. Items are immutable once built; every
// build pass reconstructs them from scratch.
type Item struct {
	FrontMatter  map[string]any
	Content      string
	SourcePath   string
	RelativePath string
	OutputPath   string // output path relative to the output root
	URL          string
	CanonicalURL string

	// Date is the normalized, comparable date value derived from front
	// matter at ingestion. RawDate keeps the original string for display.
	// A nil Date sorts after all dated items in any date view.
	Date    *time.Time
	RawDate string
}

// Title returns the front-matter title, or "" when absent.
func (i *Item) Title() string {
	if t, ok := i.FrontMatter["title"].(string); ok {
		return t
	}
	return ""
}

// Layout returns the front-matter layout template name, or "" when absent.
func (i *Item) Layout() string {
	if l, ok := i.FrontMatter["layout"].(string); ok {
		return l
	}
	return ""
}

// Description returns the front-matter description, or "" when absent.
func (i *Item) Description() string {
	if d, ok := i.FrontMatter["description"].(string); ok {
		return d
	}
	return ""
}

// Collection is a named, ordered group of content items. Order is discovery
// order (sorted walk), deterministic across repeated builds.
type Collection struct {
	Name      string
	SourceDir string
	OutputDir string
	Items     []*Item
}

// dateLayouts are the recognized front-matter date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate normalizes the recognized date field once at ingestion.
// The bool result reports whether a date string was present at all.
func parseDate(fields map[string]any) (*time.Time, string, bool) {
	raw, ok := fields["date"].(string)
	if !ok || raw == "" {
		return nil, "", false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, raw, true
		}
	}
	return nil, raw, true
}

// LoadAll discovers and parses every configured collection. Per-file
// front-matter failures remove only that item; they are logged and returned
// as recorded errors, never aborting the load.
func LoadAll(cfg *config.Config) (map[string]*Collection, []error) {
	collections := make(map[string]*Collection, len(cfg.Collections))
	var recorded []error

	for _, name := range cfg.CollectionNames() {
		settings := cfg.Collections[name]
		coll, errs := loadCollection(cfg, name, settings)
		collections[name] = coll
		recorded = append(recorded, errs...)
	}
	return collections, recorded
}

func loadCollection(cfg *config.Config, name string, settings config.CollectionConfig) (*Collection, []error) {
	coll := &Collection{
		Name:      name,
		SourceDir: settings.Path,
		OutputDir: settings.Output,
	}

	if _, err := os.Stat(settings.Path); os.IsNotExist(err) {
		slog.Warn("collection path not found, skipping",
			logfields.Collection(name), logfields.Path(settings.Path))
		return coll, nil
	}

	files, err := listContentFiles(settings.Path)
	if err != nil {
		return coll, []error{siteerr.Wrap(err, siteerr.CategoryFrontMatter, siteerr.SeverityError,
			"enumerate collection "+name)}
	}

	var recorded []error
	for _, path := range files {
		item, err := loadItem(cfg, coll, path)
		if err != nil {
			slog.Warn("skipping collection item",
				logfields.Collection(name), logfields.Path(path), logfields.Error(err))
			recorded = append(recorded, err)
			continue
		}
		coll.Items = append(coll.Items, item)
	}

	slog.Debug("loaded collection",
		logfields.Collection(name), slog.Int("items", len(coll.Items)))
	return coll, recorded
}

// listContentFiles returns every .html file under dir in sorted order.
// The sorted walk is what makes discovery order deterministic.
func listContentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadItem(cfg *config.Config, coll *Collection, path string) (*Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, siteerr.MalformedFrontMatter(path, err)
	}

	fields, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, siteerr.MalformedFrontMatter(path, err)
	}

	rel, err := filepath.Rel(coll.SourceDir, path)
	if err != nil {
		return nil, siteerr.MalformedFrontMatter(path, err)
	}
	rel = filepath.ToSlash(rel)
	outputPath := coll.OutputDir + "/" + rel

	date, rawDate, present := parseDate(fields)
	if present && date == nil {
		slog.Warn("unparsable date in front matter, item keeps no date value",
			logfields.Path(path), slog.String("date", rawDate))
	}

	return &Item{
		FrontMatter:  fields,
		Content:      string(body),
		SourcePath:   path,
		RelativePath: rel,
		OutputPath:   outputPath,
		URL:          urls.Resolve(outputPath),
		CanonicalURL: urls.Canonical(cfg.BaseURL, outputPath),
		Date:         date,
		RawDate:      rawDate,
	}, nil
}

// SortedByDateDesc returns a new slice ordered by date descending. Items
// without a date sort after all dated items. Equal or missing dates fall
// back to lexical source path, so the view is deterministic regardless of
// input order.
func SortedByDateDesc(items []*Item) []*Item {
	out := make([]*Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(a, b int) bool {
		da, db := out[a].Date, out[b].Date
		switch {
		case da != nil && db != nil:
			if !da.Equal(*db) {
				return da.After(*db)
			}
			return out[a].SourcePath < out[b].SourcePath
		case da != nil:
			return true
		case db != nil:
			return false
		default:
			return out[a].SourcePath < out[b].SourcePath
		}
	})
	return out
}
