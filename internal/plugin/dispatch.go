package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/hooks"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// Dispatch invokes callables in registration order and stops at the first
// error, which aborts the stage (and the build) as a PluginFailure naming
// the module and the hook.

// RunConfigHook dispatches a config-only hook (before_build, copy hooks,
// deploy, create_content, ...).
func (r *Registry) RunConfigHook(hook string, cfg *config.Config) error {
	for _, b := range r.bindings[hook] {
		slog.Debug("running hook", logfields.Hook(hook), logfields.Plugin(b.module))
		if err := b.fn.(hooks.ConfigFunc)(cfg); err != nil {
			return siteerr.PluginFailure(b.module, hook, err)
		}
	}
	return nil
}

// RunBeforeRenderPage dispatches before_render_page.
func (r *Registry) RunBeforeRenderPage(pagePath string, cfg *config.Config) error {
	for _, b := range r.bindings[hooks.BeforeRenderPage] {
		if err := b.fn.(hooks.BeforeRenderPageFunc)(pagePath, cfg); err != nil {
			return siteerr.PluginFailure(b.module, hooks.BeforeRenderPage, err)
		}
	}
	return nil
}

// RunAfterRenderPage dispatches after_render_page.
func (r *Registry) RunAfterRenderPage(pagePath, outputPath string, cfg *config.Config) error {
	for _, b := range r.bindings[hooks.AfterRenderPage] {
		if err := b.fn.(hooks.AfterRenderPageFunc)(pagePath, outputPath, cfg); err != nil {
			return siteerr.PluginFailure(b.module, hooks.AfterRenderPage, err)
		}
	}
	return nil
}

// RunBeforeGenerateSitemap dispatches before_generate_sitemap.
func (r *Registry) RunBeforeGenerateSitemap(cfg *config.Config, pages []hooks.PageInfo) error {
	for _, b := range r.bindings[hooks.BeforeGenerateSitemap] {
		if err := b.fn.(hooks.BeforeGenerateSitemapFunc)(cfg, pages); err != nil {
			return siteerr.PluginFailure(b.module, hooks.BeforeGenerateSitemap, err)
		}
	}
	return nil
}

// RunAfterGenerateSitemap dispatches after_generate_sitemap.
func (r *Registry) RunAfterGenerateSitemap(cfg *config.Config, sitemapPath string) error {
	for _, b := range r.bindings[hooks.AfterGenerateSitemap] {
		if err := b.fn.(hooks.AfterGenerateSitemapFunc)(cfg, sitemapPath); err != nil {
			return siteerr.PluginFailure(b.module, hooks.AfterGenerateSitemap, err)
		}
	}
	return nil
}

// RunBeforeGenerateRSSFeed dispatches before_generate_rss_feed.
func (r *Registry) RunBeforeGenerateRSSFeed(cfg *config.Config, collections map[string][]hooks.PageInfo) error {
	for _, b := range r.bindings[hooks.BeforeGenerateRSSFeed] {
		if err := b.fn.(hooks.BeforeGenerateRSSFeedFunc)(cfg, collections); err != nil {
			return siteerr.PluginFailure(b.module, hooks.BeforeGenerateRSSFeed, err)
		}
	}
	return nil
}

// RunAfterGenerateRSSFeed dispatches after_generate_rss_feed.
func (r *Registry) RunAfterGenerateRSSFeed(cfg *config.Config, rssPath string) error {
	for _, b := range r.bindings[hooks.AfterGenerateRSSFeed] {
		if err := b.fn.(hooks.AfterGenerateRSSFeedFunc)(cfg, rssPath); err != nil {
			return siteerr.PluginFailure(b.module, hooks.AfterGenerateRSSFeed, err)
		}
	}
	return nil
}
