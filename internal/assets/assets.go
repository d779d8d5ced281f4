package assets

import (
	"context"
	"fmt"
	"strings"
)

// MaxImageBytes is the upper bound for a direct image upload.
const MaxImageBytes = 5 * 1024 * 1024

// Reference describes one entry of the external asset store. The content
// document only ever stores a copy of the chosen URL string; there is no live
// reference back to the store.
type Reference struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SecureURL string `json:"secureUrl"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	CreatedAt string `json:"createdAt"`
}

// EmbedURL returns the URL preferred for embedding: the secure URL, falling
// back to the canonical one if absent.
func (r Reference) EmbedURL() string {
	if len(r.SecureURL) > 0 {
		return r.SecureURL
	}
	return r.URL
}

// Uploader pushes raw image bytes to the external asset store and resolves to
// the hosted URL.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}

// Gallery lists previously uploaded assets. A listing failure is non-fatal
// for callers: they degrade to an empty state with a retry option.
type Gallery interface {
	ListImages(ctx context.Context, maxResults int) ([]Reference, error)
}

// UploadError is a per-attempt, retryable failure of the upload workflow.
// It never corrupts the draft document.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return e.Reason
}

// ValidateImage checks an upload candidate before any network call: the mime
// type must be an image and the size must not exceed MaxImageBytes.
func ValidateImage(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return &UploadError{Reason: fmt.Sprintf("unsupported file type %q, only images can be uploaded", mimeType)}
	}
	if size > MaxImageBytes {
		return &UploadError{Reason: fmt.Sprintf("file is too large (%d bytes), the limit is %d bytes", size, MaxImageBytes)}
	}
	return nil
}
