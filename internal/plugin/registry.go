// Package plugin binds extension callables to the pipeline's hook points and
// dispatches them in registration order.
//
// A Registry is scoped to one build: it is constructed at build start, fully
// populated before any hook fires, sealed, and discarded at build end. The
// watch loop therefore never observes stale registrations across rebuilds.
package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/hooks"
)

type binding struct {
	module string
	fn     any
}

// Registry holds the ordered hook bindings for one build.
type Registry struct {
	bindings map[string][]binding
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string][]binding)}
}

// Register binds fn to the named hook on behalf of module. The function's
// signature must match the hook's frozen contract; anything else is refused
// so a bad plugin surfaces at load time, not mid-build.
func (r *Registry) Register(module, hook string, fn any) error {
	if r.sealed {
		return fmt.Errorf("registry is sealed; cannot register %s for %s", hook, module)
	}
	normalized, err := normalize(hook, fn)
	if err != nil {
		return err
	}
	r.bindings[hook] = append(r.bindings[hook], binding{module: module, fn: normalized})
	return nil
}

// Seal marks the registry fully populated. Dispatch before Seal is a
// programming error; Register after Seal is refused.
func (r *Registry) Seal() {
	r.sealed = true
}

// Count returns the number of callables bound to a hook.
func (r *Registry) Count(hook string) int {
	return len(r.bindings[hook])
}

// normalize validates fn against the hook's contract and converts it to the
// canonical signature type from the hooks package.
func normalize(hook string, fn any) (any, error) {
	switch hook {
	case hooks.BeforeBuild, hooks.AfterBuild,
		hooks.BeforeCopyStatic, hooks.AfterCopyStatic,
		hooks.BeforeCopyAssets, hooks.AfterCopyAssets,
		hooks.Deploy, hooks.CreateContent:
		switch f := fn.(type) {
		case hooks.ConfigFunc:
			return f, nil
		case func(*config.Config) error:
			return hooks.ConfigFunc(f), nil
		}
	case hooks.BeforeRenderPage:
		switch f := fn.(type) {
		case hooks.BeforeRenderPageFunc:
			return f, nil
		case func(string, *config.Config) error:
			return hooks.BeforeRenderPageFunc(f), nil
		}
	case hooks.AfterRenderPage:
		switch f := fn.(type) {
		case hooks.AfterRenderPageFunc:
			return f, nil
		case func(string, string, *config.Config) error:
			return hooks.AfterRenderPageFunc(f), nil
		}
	case hooks.BeforeGenerateSitemap:
		switch f := fn.(type) {
		case hooks.BeforeGenerateSitemapFunc:
			return f, nil
		case func(*config.Config, []hooks.PageInfo) error:
			return hooks.BeforeGenerateSitemapFunc(f), nil
		}
	case hooks.AfterGenerateSitemap:
		switch f := fn.(type) {
		case hooks.AfterGenerateSitemapFunc:
			return f, nil
		case func(*config.Config, string) error:
			return hooks.AfterGenerateSitemapFunc(f), nil
		}
	case hooks.BeforeGenerateRSSFeed:
		switch f := fn.(type) {
		case hooks.BeforeGenerateRSSFeedFunc:
			return f, nil
		case func(*config.Config, map[string][]hooks.PageInfo) error:
			return hooks.BeforeGenerateRSSFeedFunc(f), nil
		}
	case hooks.AfterGenerateRSSFeed:
		switch f := fn.(type) {
		case hooks.AfterGenerateRSSFeedFunc:
			return f, nil
		case func(*config.Config, string) error:
			return hooks.AfterGenerateRSSFeedFunc(f), nil
		}
	default:
		return nil, fmt.Errorf("unrecognized hook name %q", hook)
	}
	return nil, fmt.Errorf("hook %s: callable has wrong signature %T", hook, fn)
}
