// Package urls turns output paths into site-relative and canonical URLs.
//
// Every function here is a pure function of its arguments: no filesystem
// access, no configuration lookups beyond the base URL passed in.
package urls

import (
	"path"
	"strings"
)

// StaticPrefix is the fixed subdirectory segment static assets are served
// under in the output tree.
const StaticPrefix = "/static"

// Resolve converts a relative output path into a normalized root-relative
// URL: a single leading slash, forward slashes only, no duplicate slashes.
// Resolving an already-resolved URL is a no-op.
func Resolve(outputPath string) string {
	p := strings.ReplaceAll(outputPath, "\\", "/")
	p = "/" + strings.TrimLeft(p, "/")
	return path.Clean(p)
}

// Canonical joins the configured base URL with the resolved URL. A base URL
// with or without a trailing slash yields the same result.
func Canonical(baseURL, outputPath string) string {
	return strings.TrimRight(baseURL, "/") + Resolve(outputPath)
}

// Static resolves a static-asset path under the fixed static prefix.
// Already-prefixed paths are left alone so Static is idempotent too.
func Static(assetPath string) string {
	p := Resolve(assetPath)
	if p == StaticPrefix || strings.HasPrefix(p, StaticPrefix+"/") {
		return p
	}
	return StaticPrefix + p
}

// Asset resolves a root-asset path. Root assets are copied to the output
// root and carry no prefix.
func Asset(assetPath string) string {
	return Resolve(assetPath)
}
