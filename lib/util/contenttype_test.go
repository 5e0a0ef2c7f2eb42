package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"dir/nested/clip.mov", "video/quicktime"},
		{"archive.zip", "application/zip"},
		{"notes.txt", "text/plain"},
		{"unknown.zzz9", DefaultContentType},
		{"no_extension", DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeForPath(tt.path))
		})
	}
}
