package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrObjectNotFound is returned when a key does not exist in the backing store.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob storage used for gallery images and avatars.
// Keys are slash separated and relative to the bucket or base directory.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Move(ctx context.Context, srcKey, dstKey string) error
	Remove(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	URL(key string) string
}

// CleanKey normalises a key and rejects ones escaping the store root.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	trimmed = strings.TrimLeft(trimmed, "/")
	if trimmed == "" {
		return "", fmt.Errorf("empty object key")
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return strings.TrimRight(base, "/") + "/" + key
}
