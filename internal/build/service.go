// Package build runs the whole pipeline for one site: plugins, global data,
// collections, rendering, copying, sitemap, and RSS, in that fixed order.
// All execution paths (CLI, watch loop, tests) route through Service.
package build

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/hooks"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/feeds"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/sitedata"
	"git.home.luguber.info/inful/sitegen/internal/urls"
)

// Service executes builds for one configuration.
type Service struct {
	cfg       *config.Config
	engine    render.Engine
	recorder  metrics.Recorder
	hookSetup func(*plugin.Registry) error
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEngine overrides the template engine (the default is plush).
func WithEngine(e render.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithHookSetup registers in-process hooks on every build's fresh registry,
// in addition to whatever the plugins directory provides.
func WithHookSetup(fn func(*plugin.Registry) error) Option {
	return func(s *Service) { s.hookSetup = fn }
}

// NewService creates a build service for cfg.
func NewService(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		engine:   render.NewPlushEngine(cfg),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one full build pass. The returned Result enumerates produced
// URLs and all non-fatal errors; a fatal condition is returned as a non-nil
// error alongside a Result with StatusFailed.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		BuildID:   uuid.NewString(),
		StartTime: s.now(),
	}
	err := s.run(ctx, result)

	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)

	if err != nil {
		result.Status = StatusFailed
		s.recorder.IncBuildOutcome("failed")
		slog.Error("build failed",
			logfields.BuildID(result.BuildID), logfields.Error(err))
		return result, err
	}

	result.Status = StatusSuccess
	s.recorder.IncBuildOutcome("success")
	slog.Info("build complete",
		logfields.BuildID(result.BuildID),
		slog.Int("pages", len(result.Pages)),
		slog.Int("errors", len(result.Errors)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *Service) run(ctx context.Context, result *Result) error {
	// The hook registry is scoped to this run: fully populated before any
	// hook fires, never mutated mid-build, discarded afterwards.
	registry := plugin.NewRegistry()
	if s.hookSetup != nil {
		if err := s.hookSetup(registry); err != nil {
			return siteerr.Wrap(err, siteerr.CategoryPlugin, siteerr.SeverityFatal, "register hooks")
		}
	}
	if err := plugin.LoadDirectory(registry, s.cfg.PluginsDir); err != nil {
		return err
	}
	registry.Seal()

	if err := registry.RunConfigHook(hooks.BeforeBuild, s.cfg); err != nil {
		return err
	}

	if err := s.resetOutputDir(); err != nil {
		return err
	}

	data, err := s.loadData()
	if err != nil {
		return err
	}

	collections := s.loadCollections(result)
	site := render.SiteBindings(s.cfg, data, collections)

	if err := ctx.Err(); err != nil {
		return siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityFatal, "build canceled")
	}

	rendered, err := s.renderAll(registry, site, collections, result)
	if err != nil {
		return err
	}

	if err := s.copyStatic(registry, result); err != nil {
		return err
	}
	if err := s.copyAssets(registry, result); err != nil {
		return err
	}

	if err := s.generateSitemap(registry, result); err != nil {
		return err
	}
	if err := s.generateRSS(registry, collections, rendered, result); err != nil {
		return err
	}

	return registry.RunConfigHook(hooks.AfterBuild, s.cfg)
}

// RunHook dispatches one configuration hook (deploy, create_content) outside
// a build, against a registry populated the same way a build's would be.
func (s *Service) RunHook(hook string) error {
	registry := plugin.NewRegistry()
	if s.hookSetup != nil {
		if err := s.hookSetup(registry); err != nil {
			return siteerr.Wrap(err, siteerr.CategoryPlugin, siteerr.SeverityFatal, "register hooks")
		}
	}
	if err := plugin.LoadDirectory(registry, s.cfg.PluginsDir); err != nil {
		return err
	}
	registry.Seal()

	if registry.Count(hook) == 0 {
		slog.Info("no plugin handles hook", logfields.Hook(hook))
		return nil
	}
	return registry.RunConfigHook(hook, s.cfg)
}

func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.recorder.ObserveStageDuration(name, time.Since(start))
	return err
}

func (s *Service) resetOutputDir() error {
	return s.stage("prepare_output", func() error {
		if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
			return siteerr.CopyFailure(s.cfg.OutputDir, s.cfg.OutputDir, true, err)
		}
		if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
			// The output root itself is the one copy target whose failure
			// is build-fatal.
			return siteerr.CopyFailure(s.cfg.OutputDir, s.cfg.OutputDir, true, err)
		}
		return nil
	})
}

func (s *Service) loadData() (map[string]any, error) {
	var data map[string]any
	err := s.stage("data", func() error {
		var err error
		data, err = sitedata.Load(s.cfg.DataDir)
		return err
	})
	return data, err
}

func (s *Service) loadCollections(result *Result) map[string]*content.Collection {
	var collections map[string]*content.Collection
	_ = s.stage("collections", func() error {
		var recorded []error
		collections, recorded = content.LoadAll(s.cfg)
		result.record(recorded...)
		return nil
	})
	return collections
}

// renderAll renders standalone pages and every collection item. It returns
// the set of collection items that actually produced output, keyed by
// source path, so the feed stage can exclude failed renders.
func (s *Service) renderAll(registry *plugin.Registry, site map[string]any, collections map[string]*content.Collection, result *Result) (map[string]bool, error) {
	rendered := make(map[string]bool)
	err := s.stage("render", func() error {
		if err := s.renderPages(registry, site, result); err != nil {
			return err
		}
		return s.renderCollections(registry, site, collections, rendered, result)
	})
	return rendered, err
}

func (s *Service) renderPages(registry *plugin.Registry, site map[string]any, result *Result) error {
	if _, err := os.Stat(s.cfg.PagesDir); os.IsNotExist(err) {
		slog.Warn("pages directory not found, skipping pages", logfields.Path(s.cfg.PagesDir))
		return nil
	}

	files, err := listHTMLFiles(s.cfg.PagesDir)
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryRender, siteerr.SeverityFatal, "enumerate pages")
	}

	for _, path := range files {
		if err := registry.RunBeforeRenderPage(path, s.cfg); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(s.cfg.PagesDir, path)
		if relErr != nil {
			result.record(siteerr.RenderFailure(path, relErr))
			continue
		}
		rel = filepath.ToSlash(rel)

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			result.record(siteerr.RenderFailure(path, readErr))
			s.recorder.IncPageResult(metrics.ResultError)
			continue
		}

		fields, body, fmErr := frontmatter.Parse(raw)
		if fmErr != nil {
			result.record(siteerr.MalformedFrontMatter(path, fmErr))
			s.recorder.IncPageResult(metrics.ResultSkipped)
			slog.Warn("skipping page with malformed front matter",
				logfields.Path(path), logfields.Error(fmErr))
			continue
		}

		pd, pdErrs := render.ResolvePageData(s.cfg, path, fields)
		result.record(pdErrs...)

		page := render.PageBindings(fields, "", rel, s.cfg, pd)
		out, renderErr := s.engine.RenderString(string(body), &render.Context{Site: site, Page: page})
		if renderErr != nil {
			result.record(siteerr.RenderFailure(path, renderErr))
			s.recorder.IncPageResult(metrics.ResultError)
			slog.Warn("page render failed", logfields.Path(path), logfields.Error(renderErr))
			continue
		}

		outputPath := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(rel))
		if writeErr := writeOutput(outputPath, out); writeErr != nil {
			result.record(siteerr.CopyFailure(path, outputPath, false, writeErr))
			s.recorder.IncPageResult(metrics.ResultError)
			continue
		}

		s.recorder.IncPageResult(metrics.ResultSuccess)
		result.Pages = append(result.Pages, hooks.PageInfo{
			SourcePath:   path,
			OutputPath:   outputPath,
			URL:          urls.Resolve(rel),
			CanonicalURL: urls.Canonical(s.cfg.BaseURL, rel),
			Title:        titleOf(fields),
		})
		slog.Debug("rendered page", logfields.Path(path), logfields.URL(urls.Resolve(rel)))

		if err := registry.RunAfterRenderPage(path, outputPath, s.cfg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) renderCollections(registry *plugin.Registry, site map[string]any, collections map[string]*content.Collection, rendered map[string]bool, result *Result) error {
	for _, name := range s.cfg.CollectionNames() {
		coll := collections[name]
		for _, item := range coll.Items {
			if err := registry.RunBeforeRenderPage(item.SourcePath, s.cfg); err != nil {
				return err
			}

			layout := item.Layout()
			if layout == "" {
				slog.Warn("collection item has no layout in front matter, skipping",
					logfields.Collection(name), logfields.Path(item.SourcePath))
				s.recorder.IncPageResult(metrics.ResultSkipped)
				continue
			}

			pd, pdErrs := render.ResolvePageData(s.cfg, item.SourcePath, item.FrontMatter)
			result.record(pdErrs...)

			page := render.PageBindings(item.FrontMatter, item.Content, item.OutputPath, s.cfg, pd)
			out, renderErr := s.engine.RenderTemplate(layout, &render.Context{Site: site, Page: page})
			if renderErr != nil {
				result.record(siteerr.RenderFailure(item.SourcePath, renderErr))
				s.recorder.IncPageResult(metrics.ResultError)
				slog.Warn("collection item render failed",
					logfields.Collection(name), logfields.Path(item.SourcePath), logfields.Error(renderErr))
				continue
			}

			outputPath := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(item.OutputPath))
			if writeErr := writeOutput(outputPath, out); writeErr != nil {
				result.record(siteerr.CopyFailure(item.SourcePath, outputPath, false, writeErr))
				s.recorder.IncPageResult(metrics.ResultError)
				continue
			}

			s.recorder.IncPageResult(metrics.ResultSuccess)
			rendered[item.SourcePath] = true
			result.Pages = append(result.Pages, hooks.PageInfo{
				SourcePath:   item.SourcePath,
				OutputPath:   outputPath,
				URL:          item.URL,
				CanonicalURL: item.CanonicalURL,
				Title:        item.Title(),
			})

			if err := registry.RunAfterRenderPage(item.SourcePath, outputPath, s.cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) copyStatic(registry *plugin.Registry, result *Result) error {
	return s.stage("copy_static", func() error {
		if err := registry.RunConfigHook(hooks.BeforeCopyStatic, s.cfg); err != nil {
			return err
		}
		if _, err := os.Stat(s.cfg.StaticDir); os.IsNotExist(err) {
			slog.Warn("static directory not found, skipping", logfields.Path(s.cfg.StaticDir))
		} else {
			result.record(copyTree(s.cfg.StaticDir, filepath.Join(s.cfg.OutputDir, "static"))...)
		}
		return registry.RunConfigHook(hooks.AfterCopyStatic, s.cfg)
	})
}

func (s *Service) copyAssets(registry *plugin.Registry, result *Result) error {
	return s.stage("copy_assets", func() error {
		if err := registry.RunConfigHook(hooks.BeforeCopyAssets, s.cfg); err != nil {
			return err
		}
		if _, err := os.Stat(s.cfg.AssetsDir); os.IsNotExist(err) {
			slog.Warn("assets directory not found, skipping", logfields.Path(s.cfg.AssetsDir))
		} else {
			result.record(copyTree(s.cfg.AssetsDir, s.cfg.OutputDir)...)
		}
		return registry.RunConfigHook(hooks.AfterCopyAssets, s.cfg)
	})
}

func (s *Service) generateSitemap(registry *plugin.Registry, result *Result) error {
	return s.stage("sitemap", func() error {
		// The before hook fires ahead of any file write, so a failing hook
		// leaves no sitemap behind.
		if err := registry.RunBeforeGenerateSitemap(s.cfg, result.Pages); err != nil {
			return err
		}
		path, err := feeds.WriteSitemap(s.cfg.OutputDir, result.Pages)
		if err != nil {
			result.record(siteerr.Wrap(err, siteerr.CategoryCopy, siteerr.SeverityError, "write sitemap"))
			return nil
		}
		slog.Debug("sitemap generated", logfields.Path(path))
		return registry.RunAfterGenerateSitemap(s.cfg, path)
	})
}

func (s *Service) generateRSS(registry *plugin.Registry, collections map[string]*content.Collection, rendered map[string]bool, result *Result) error {
	return s.stage("rss", func() error {
		if err := registry.RunBeforeGenerateRSSFeed(s.cfg, collectionPages(collections, rendered)); err != nil {
			return err
		}

		var items []*content.Item
		if coll, ok := collections[s.cfg.RSSCollection]; ok {
			for _, item := range coll.Items {
				if rendered[item.SourcePath] {
					items = append(items, item)
				}
			}
		} else {
			slog.Info("no collection configured for RSS, emitting empty feed",
				logfields.Collection(s.cfg.RSSCollection))
		}

		path, err := feeds.WriteRSS(s.cfg, items, s.now(), s.cfg.OutputDir)
		if err != nil {
			result.record(siteerr.Wrap(err, siteerr.CategoryCopy, siteerr.SeverityError, "write rss feed"))
			return nil
		}
		slog.Debug("rss feed generated", logfields.Path(path))
		return registry.RunAfterGenerateRSSFeed(s.cfg, path)
	})
}

// collectionPages converts successfully rendered collection items into the
// read-only records the RSS hooks receive.
func collectionPages(collections map[string]*content.Collection, rendered map[string]bool) map[string][]hooks.PageInfo {
	out := make(map[string][]hooks.PageInfo, len(collections))
	for name, coll := range collections {
		pages := []hooks.PageInfo{}
		for _, item := range coll.Items {
			if !rendered[item.SourcePath] {
				continue
			}
			pages = append(pages, hooks.PageInfo{
				SourcePath:   item.SourcePath,
				URL:          item.URL,
				CanonicalURL: item.CanonicalURL,
				Title:        item.Title(),
			})
		}
		out[name] = pages
	}
	return out
}

func titleOf(fields map[string]any) string {
	if t, ok := fields["title"].(string); ok {
		return t
	}
	return ""
}

func writeOutput(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func listHTMLFiles(dir string) ([]string, error) {
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
