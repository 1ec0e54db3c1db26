package plugin

import (
	"log/slog"
	"os"
	"path/filepath"
	goplugin "plugin"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitegen/hooks"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// LoadDirectory scans dir for compiled plugin modules (.so files built with
// `go build -buildmode=plugin`) and auto-registers every exported symbol
// whose name matches a recognized hook. Modules are loaded in sorted file
// order, which fixes registration order across builds.
//
// A module that cannot be opened is logged and skipped; a module exposing a
// hook symbol with the wrong signature is a PluginFailure, because silently
// ignoring a half-working plugin would be worse than refusing it.
func LoadDirectory(reg *Registry, dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Debug("no plugins directory, skipping plugin loading", logfields.Path(dir))
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryPlugin, siteerr.SeverityFatal,
			"read plugins directory "+dir)
	}

	var modules []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".so") {
			continue
		}
		modules = append(modules, entry.Name())
	}
	sort.Strings(modules)

	for _, name := range modules {
		module := strings.TrimSuffix(name, ".so")
		if err := loadModule(reg, module, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func loadModule(reg *Registry, module, path string) error {
	p, err := goplugin.Open(path)
	if err != nil {
		slog.Warn("skipping unloadable plugin module",
			logfields.Plugin(module), logfields.Path(path), logfields.Error(err))
		return nil
	}

	bound := 0
	for _, hook := range hooks.Names() {
		sym, err := p.Lookup(hooks.SymbolName(hook))
		if err != nil {
			continue
		}
		if err := reg.Register(module, hook, sym); err != nil {
			return siteerr.PluginFailure(module, hook, err)
		}
		bound++
	}

	slog.Info("loaded plugin", logfields.Plugin(module), slog.Int("hooks", bound))
	return nil
}
