// Package storage persists uploaded sauce images.
//
// Objects are addressed by a flat key (a uuid plus extension). The public
// reference stored on a sauce is a URL whose last path segment is the key.
package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object is an upload ready to be stored.
type Object struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store writes and removes image objects.
type Store interface {
	// Put stores the object and returns its key.
	Put(ctx context.Context, obj Object) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public reference of key. origin is the scheme and host
	// the request came in on; drivers with their own public host ignore it.
	URL(origin, key string) string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageExtension returns the file extension for an accepted image content
// type, and false for anything else.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// ContentTypeFromFilename guesses an image content type from its extension.
func ContentTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// KeyFromURL extracts the object key from a reference built by URL.
func KeyFromURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" {
		return ""
	}
	return key
}

func newKey(contentType string) string {
	ext, _ := ImageExtension(contentType)
	return uuid.NewString() + ext
}
