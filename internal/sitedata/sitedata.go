// Package sitedata loads the global data directory into one nested mapping.
// Directory levels become key levels and file stems become leaf keys, so
// `_data/social/links.json` is reachable as `site.data.social.links`.
//
// Global data is all-or-nothing: any unreadable file or key collision is a
// build-fatal error, because templates assume a single authoritative value
// per key and partial loading would silently corrupt unrelated pages.
package sitedata

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// Load walks dir and returns the nested data mapping. A missing or empty
// data directory yields an empty map; that is not an error.
func Load(dir string) (map[string]any, error) {
	data := map[string]any{}
	if dir == "" {
		return data, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Debug("no data directory, skipping global data", logfields.Path(dir))
		return data, nil
	}

	files, err := listJSONFiles(dir)
	if err != nil {
		return nil, siteerr.InvalidGlobalData(dir, err)
	}

	// origins tracks which file produced each key path, for collision
	// diagnostics. Subtree nodes are keyed too: a leaf landing where an
	// earlier file forced a subtree is just as much a collision.
	//
	// leaves marks which key paths hold decoded file contents. A JSON-object
	// leaf is a map[string]any just like a loader-created subtree node, so
	// the node's shape cannot distinguish the two; only this set can.
	origins := map[string]string{}
	leaves := map[string]bool{}

	for _, path := range files {
		value, err := readJSON(path)
		if err != nil {
			return nil, siteerr.InvalidGlobalData(path, err)
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, siteerr.InvalidGlobalData(path, err)
		}
		keys := keyPath(rel)

		if err := insert(data, origins, leaves, keys, path, value); err != nil {
			return nil, err
		}
		slog.Debug("loaded global data", logfields.File(rel), logfields.Path(path))
	}

	return data, nil
}

// listJSONFiles returns every .json file under dir in sorted order, so the
// resulting mapping (and any collision report) is deterministic.
func listJSONFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		} else {
			slog.Warn("skipping non-JSON data file", logfields.Path(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func readJSON(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// keyPath converts a relative file path into its nested key segments.
func keyPath(rel string) []string {
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")
	last := segments[len(segments)-1]
	segments[len(segments)-1] = strings.TrimSuffix(last, filepath.Ext(last))
	return segments
}

func insert(data map[string]any, origins map[string]string, leaves map[string]bool, keys []string, path string, value any) error {
	node := data
	for i, key := range keys[:len(keys)-1] {
		prefix := strings.Join(keys[:i+1], ".")
		if leaves[prefix] {
			// An earlier file claimed this key path as a leaf. Even when
			// that leaf decoded to a JSON object, descending into it would
			// merge two files under one key.
			return siteerr.DataKeyCollision(prefix, origins[prefix], path)
		}
		existing, ok := node[key]
		if !ok {
			child := map[string]any{}
			node[key] = child
			origins[prefix] = path
			node = child
			continue
		}
		// Not a registered leaf, so this is a loader-created subtree node.
		node = existing.(map[string]any)
	}

	leaf := keys[len(keys)-1]
	full := strings.Join(keys, ".")
	if _, exists := node[leaf]; exists {
		return siteerr.DataKeyCollision(full, origins[full], path)
	}
	node[leaf] = value
	origins[full] = path
	leaves[full] = true
	return nil
}
