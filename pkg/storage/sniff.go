package storage

import (
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrMIMENotAllowed reports an upload whose sniffed content type is outside the allow list.
var ErrMIMENotAllowed = errors.New("content type not allowed")

// SniffImage detects the content type of head and checks it against allowed.
// It returns the canonical MIME type and the file extension to store the object under.
// The client supplied filename and content type are never trusted.
func SniffImage(head []byte, allowed []string) (mime string, ext string, err error) {
	detected := mimetype.Detect(head)
	for _, candidate := range allowed {
		if detected.Is(strings.TrimSpace(candidate)) {
			return detected.String(), normaliseExt(detected.Extension()), nil
		}
	}
	return "", "", ErrMIMENotAllowed
}

func normaliseExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}
