package store

import (
	"path"
	"path/filepath"
	"strings"
)

// MediaTypeForKey returns the media type served for an image key, judged by
// its extension. Unknown extensions are served as JPEG.
func MediaTypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// validKey reports whether key is a single, non-special path element.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return path.Base(key) == key && filepath.Base(key) == key && !strings.ContainsAny(key, `/\`)
}
