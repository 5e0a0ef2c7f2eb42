package util

import (
	"mime"
	"path/filepath"
	"strings"
)

// Content type used when a file's extension is unknown.
const DefaultContentType = "application/octet-stream"

// Known extensions for the media files this tool is typically pointed at.
// Checked before the platform MIME database so results are stable across
// systems.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".json": "application/json",
	".zip":  "application/zip",
}

// Look up the content type for a file path by extension.
// Unknown extensions fall back to the platform MIME database, then to
// DefaultContentType. Never sniffs file contents.
func ContentTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}

	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	return DefaultContentType
}
