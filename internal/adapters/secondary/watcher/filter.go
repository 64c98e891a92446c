package watcher

import (
	"path/filepath"
	"strings"
)

// watchedExts are the file types that change what the catalog shows
var watchedExts = map[string]bool{
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// hiddenName reports dot files and underscore drafts
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// relevant reports whether a change to path can affect the catalog.
// Paths without an extension are treated as directories.
func relevant(path string) bool {
	base := filepath.Base(path)
	if hiddenName(base) || strings.HasSuffix(base, "~") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	return ext == "" || watchedExts[ext]
}
