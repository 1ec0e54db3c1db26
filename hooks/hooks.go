// Package hooks freezes the extension point names and argument signatures of
// the build pipeline. Plugin authors compile against this package; changing
// a name or an argument order here is a breaking interface change.
package hooks

import (
	"git.home.luguber.info/inful/sitegen/config"
)

// Recognized hook names, in pipeline order.
const (
	BeforeBuild           = "before_build"
	AfterBuild            = "after_build"
	BeforeRenderPage      = "before_render_page"
	AfterRenderPage       = "after_render_page"
	BeforeCopyStatic      = "before_copy_static"
	AfterCopyStatic       = "after_copy_static"
	BeforeCopyAssets      = "before_copy_assets"
	AfterCopyAssets       = "after_copy_assets"
	BeforeGenerateSitemap = "before_generate_sitemap"
	AfterGenerateSitemap  = "after_generate_sitemap"
	BeforeGenerateRSSFeed = "before_generate_rss_feed"
	AfterGenerateRSSFeed  = "after_generate_rss_feed"
	Deploy                = "deploy"
	CreateContent         = "create_content"
)

// Names lists every recognized hook name.
func Names() []string {
	return []string{
		BeforeBuild,
		AfterBuild,
		BeforeRenderPage,
		AfterRenderPage,
		BeforeCopyStatic,
		AfterCopyStatic,
		BeforeCopyAssets,
		AfterCopyAssets,
		BeforeGenerateSitemap,
		AfterGenerateSitemap,
		BeforeGenerateRSSFeed,
		AfterGenerateRSSFeed,
		Deploy,
		CreateContent,
	}
}

// SymbolName maps a hook name to the exported symbol a compiled plugin must
// provide for it ("before_build" -> "BeforeBuild").
func SymbolName(hook string) string {
	symbols := map[string]string{
		BeforeBuild:           "BeforeBuild",
		AfterBuild:            "AfterBuild",
		BeforeRenderPage:      "BeforeRenderPage",
		AfterRenderPage:       "AfterRenderPage",
		BeforeCopyStatic:      "BeforeCopyStatic",
		AfterCopyStatic:       "AfterCopyStatic",
		BeforeCopyAssets:      "BeforeCopyAssets",
		AfterCopyAssets:       "AfterCopyAssets",
		BeforeGenerateSitemap: "BeforeGenerateSitemap",
		AfterGenerateSitemap:  "AfterGenerateSitemap",
		BeforeGenerateRSSFeed: "BeforeGenerateRSSFeed",
		AfterGenerateRSSFeed:  "AfterGenerateRSSFeed",
		Deploy:                "Deploy",
		CreateContent:         "CreateContent",
	}
	return symbols[hook]
}

// PageInfo is the read-only page record handed to sitemap/RSS hooks.
type PageInfo struct {
	SourcePath   string
	OutputPath   string
	URL          string
	CanonicalURL string
	Title        string
}

// Hook signatures. The argument order matches the hook name's documented
// contract exactly.
type (
	// ConfigFunc covers before_build, after_build, before_copy_static,
	// after_copy_static, before_copy_assets, after_copy_assets, deploy and
	// create_content: hooks whose only argument is the configuration.
	ConfigFunc func(cfg *config.Config) error

	// BeforeRenderPageFunc runs before a single page renders.
	BeforeRenderPageFunc func(pagePath string, cfg *config.Config) error

	// AfterRenderPageFunc runs after a single page has been written.
	AfterRenderPageFunc func(pagePath, outputPath string, cfg *config.Config) error

	// BeforeGenerateSitemapFunc runs before the sitemap file is written.
	BeforeGenerateSitemapFunc func(cfg *config.Config, pages []PageInfo) error

	// AfterGenerateSitemapFunc runs after the sitemap file has been written.
	AfterGenerateSitemapFunc func(cfg *config.Config, sitemapPath string) error

	// BeforeGenerateRSSFeedFunc runs before the RSS feed is written.
	BeforeGenerateRSSFeedFunc func(cfg *config.Config, collections map[string][]PageInfo) error

	// AfterGenerateRSSFeedFunc runs after the RSS feed has been written.
	AfterGenerateRSSFeedFunc func(cfg *config.Config, rssPath string) error
)
