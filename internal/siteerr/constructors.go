package siteerr

import "fmt"

// MalformedFrontMatter reports an unparseable front-matter block in one
// content file. Scope: that file only; the caller skips the item.
func MalformedFrontMatter(path string, cause error) *Error {
	return Wrap(cause, CategoryFrontMatter, SeverityError,
		fmt.Sprintf("malformed front matter in %s", path)).
		WithContext("path", path)
}

// DataKeyCollision reports two global data files mapping to the same nested
// key path. Fatal: templates assume a single authoritative value per key.
func DataKeyCollision(key, pathA, pathB string) *Error {
	return New(CategoryData, SeverityFatal,
		fmt.Sprintf("data key %q defined by both %s and %s", key, pathA, pathB)).
		WithContext("key", key).
		WithContext("path_a", pathA).
		WithContext("path_b", pathB)
}

// InvalidGlobalData reports an unreadable or non-JSON global data file.
// Fatal: partial global data would silently corrupt unrelated pages.
func InvalidGlobalData(path string, cause error) *Error {
	return Wrap(cause, CategoryData, SeverityFatal,
		fmt.Sprintf("invalid global data file %s", path)).
		WithContext("path", path)
}

// MissingPageData reports a page-declared data asset that could not be
// loaded. Non-fatal: the page still renders without that entry.
func MissingPageData(pagePath, assetPath string) *Error {
	return New(CategoryPageData, SeverityError,
		fmt.Sprintf("page %s references missing data asset %s", pagePath, assetPath)).
		WithContext("page_path", pagePath).
		WithContext("asset_path", assetPath)
}

// RenderFailure reports a template rendering error for one page.
// Non-fatal: the page is skipped and the rest of the site still ships.
func RenderFailure(sourcePath string, cause error) *Error {
	return Wrap(cause, CategoryRender, SeverityError,
		fmt.Sprintf("render failed for %s", sourcePath)).
		WithContext("source_path", sourcePath)
}

// PluginFailure reports a hook callable returning an error. Fatal: a failed
// stage hook can leave shared state inconsistent for everything after it.
func PluginFailure(module, hook string, cause error) *Error {
	return Wrap(cause, CategoryPlugin, SeverityFatal,
		fmt.Sprintf("plugin %s failed in hook %s", module, hook)).
		WithContext("module", module).
		WithContext("hook", hook)
}

// CopyFailure reports a file copy error with both endpoints. Non-fatal
// unless the destination is the output root itself.
func CopyFailure(src, dst string, fatal bool, cause error) *Error {
	sev := SeverityError
	if fatal {
		sev = SeverityFatal
	}
	return Wrap(cause, CategoryCopy, sev,
		fmt.Sprintf("copy %s -> %s", src, dst)).
		WithContext("source", src).
		WithContext("destination", dst)
}
