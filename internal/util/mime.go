package util

import (
	"path/filepath"
	"strings"
)

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ImageMIMEType returns the content type served for an image file name.
func ImageMIMEType(name string) (string, bool) {
	mimeType, ok := imageMIMETypes[strings.ToLower(filepath.Ext(name))]
	return mimeType, ok
}

func IsImageExtension(extension string) bool {
	_, ok := imageMIMETypes[strings.ToLower(strings.TrimSpace(extension))]
	return ok
}

// IsScalableExtension reports whether the image can be decoded and resized.
func IsScalableExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif":
		return true
	default:
		return false
	}
}

// HasExtension reports whether name carries one of the given extensions.
// An empty list allows everything.
func HasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}

	return false
}
