package storage

import (
	"context"
	"fmt"
	"io"
)

// ObjectStorage abstracts the blob store the save protocol uploads to.
// The S3 implementation is the production one; tests inject in-memory
// fakes with per-path failure injection.
type ObjectStorage interface {
	// Upload writes the object and returns its public URL
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// PublicURL returns the URL an already-stored object is served from
	PublicURL(key string) string
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
