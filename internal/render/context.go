package render

import (
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/urls"
)

// SiteBindings builds the site-wide half of the render context: config,
// global data, and collections. Built once per build pass and reused
// read-only by every render call.
func SiteBindings(cfg *config.Config, data map[string]any, collections map[string]*content.Collection) map[string]any {
	colls := make(map[string]any, len(collections))
	for name, coll := range collections {
		items := make([]map[string]any, 0, len(coll.Items))
		for _, item := range coll.Items {
			items = append(items, itemBindings(item))
		}
		colls[name] = items
	}

	return map[string]any{
		"config":      configBindings(cfg),
		"data":        data,
		"collections": colls,
	}
}

func configBindings(cfg *config.Config) map[string]any {
	return map[string]any{
		"site_title":       cfg.SiteTitle,
		"site_description": cfg.SiteDescription,
		"base_url":         cfg.BaseURL,
		"output_dir":       cfg.OutputDir,
	}
}

func itemBindings(item *content.Item) map[string]any {
	return map[string]any{
		"front_matter": item.FrontMatter,
		"content":      template.HTML(item.Content),
		"url":          item.URL,
		"canonical":    item.CanonicalURL,
		"date":         item.RawDate,
		"source_path":  item.SourcePath,
	}
}

// PageData is the per-page supplementary data resolved from
// `data_file`/`data_files` front-matter declarations.
type PageData struct {
	// Data is the server-side merge of every referenced JSON asset, in
	// declaration order (later files win on key conflicts).
	Data map[string]any

	// JSONURLs holds the client-side fetch URLs, 1:1 with the declared
	// source list minus any missing entries.
	JSONURLs []string
}

// ResolvePageData loads the data assets a page declares. A missing or
// unreadable asset is recorded as a non-fatal MissingPageData error: the
// page still renders and the broken entry is omitted from JSONURLs.
func ResolvePageData(cfg *config.Config, pagePath string, fm map[string]any) (PageData, []error) {
	pd := PageData{Data: map[string]any{}}
	var recorded []error

	for _, ref := range declaredDataFiles(fm) {
		assetPath := filepath.Join(cfg.AssetsDir, strings.TrimLeft(ref, "/"))
		raw, err := os.ReadFile(assetPath)
		if err != nil {
			recorded = append(recorded, siteerr.MissingPageData(pagePath, ref))
			continue
		}
		var value map[string]any
		if err := json.Unmarshal(raw, &value); err != nil {
			recorded = append(recorded, siteerr.MissingPageData(pagePath, ref))
			continue
		}
		for k, v := range value {
			pd.Data[k] = v
		}
		pd.JSONURLs = append(pd.JSONURLs, urls.Asset(ref))
	}
	return pd, recorded
}

// declaredDataFiles normalizes `data_file` (single) and `data_files` (list)
// into one ordered reference list. `data_file` wins when both are present,
// matching the single-then-list precedence the front matter schema documents.
func declaredDataFiles(fm map[string]any) []string {
	if single, ok := fm["data_file"].(string); ok && single != "" {
		return []string{single}
	}
	list, ok := fm["data_files"].([]any)
	if !ok {
		return nil
	}
	var refs []string
	for _, entry := range list {
		if ref, ok := entry.(string); ok && ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// PageBindings builds the page half of the render context.
func PageBindings(fm map[string]any, body string, outputPath string, cfg *config.Config, pd PageData) map[string]any {
	jsonURLs := pd.JSONURLs
	if jsonURLs == nil {
		jsonURLs = []string{}
	}
	return map[string]any{
		"front_matter": fm,
		// The body is already HTML; bind it as template.HTML so the engine
		// emits it verbatim instead of entity-escaping the markup.
		"content":        template.HTML(body),
		"data":           pd.Data,
		"data_json_urls": jsonURLs,
		"url":            urls.Resolve(outputPath),
		"canonical":      urls.Canonical(cfg.BaseURL, outputPath),
	}
}
