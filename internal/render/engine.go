// Package render assembles per-render contexts and drives the template
// engine. The engine itself is an external collaborator behind the Engine
// interface; the default implementation uses plush.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gobuffalo/plush"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/urls"
)

// Context is the full data mapping passed to the engine for one render
// call. It is assembled fresh per call and never shared across renders.
type Context struct {
	Site map[string]any
	Page map[string]any
}

// Engine renders templates. Implementations report failures as plain
// errors; callers classify them as per-page render errors.
type Engine interface {
	// RenderString renders inline template source (a page body).
	RenderString(src string, ctx *Context) (string, error)

	// RenderTemplate renders a named template from the templates directory
	// (a collection item's layout).
	RenderTemplate(name string, ctx *Context) (string, error)
}

// PlushEngine is the default Engine, backed by gobuffalo/plush.
type PlushEngine struct {
	cfg *config.Config
}

// NewPlushEngine creates a plush-backed engine for the given site.
func NewPlushEngine(cfg *config.Config) *PlushEngine {
	return &PlushEngine{cfg: cfg}
}

func (e *PlushEngine) RenderString(src string, ctx *Context) (string, error) {
	tpl, err := plush.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	return tpl.Exec(e.bind(ctx))
}

func (e *PlushEngine) RenderTemplate(name string, ctx *Context) (string, error) {
	path := filepath.Join(e.cfg.TemplatesDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", name, err)
	}
	tpl, err := plush.Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl.Exec(e.bind(ctx))
}

// bind exposes the render context plus the url helpers templates rely on,
// mirroring the helper set the site's templates were written against.
func (e *PlushEngine) bind(ctx *Context) *plush.Context {
	pctx := plush.NewContext()
	pctx.Set("site", ctx.Site)
	pctx.Set("page", ctx.Page)
	pctx.Set("urlFor", func(path string) string {
		return urls.Resolve(path)
	})
	pctx.Set("staticPath", func(path string) string {
		return urls.Static(path)
	})
	pctx.Set("canonicalFor", func(path string) string {
		return urls.Canonical(e.cfg.BaseURL, path)
	})
	pctx.Set("now", func(layout string) string {
		if layout == "" {
			layout = "2006-01-02 15:04:05"
		}
		return time.Now().Format(layout)
	})
	return pctx
}
