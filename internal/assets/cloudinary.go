package assets

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"keynotes-cms/internal/config"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/text/collate"
)

// CloudinaryStore implements Uploader and Gallery against the Cloudinary
// media API. The gallery listing is a read-only snapshot: it is not kept in
// sync with concurrent uploads, re-listing is the only consistency mechanism.
type CloudinaryStore struct {
	*environment.Env
	Collator *collate.Collator

	cld    *cloudinary.Cloudinary
	folder string
}

// ensure CloudinaryStore implements both collaborator contracts
var _ Uploader = &CloudinaryStore{}
var _ Gallery = &CloudinaryStore{}

func InitCloudinary(c *config.Configuration, env *environment.Env, collator *collate.Collator) (*CloudinaryStore, error) {
	if len(c.Cloudinary.CloudName) == 0 || len(c.Cloudinary.ApiKey) == 0 || len(c.Cloudinary.ApiSecret) == 0 {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(c.Cloudinary.CloudName, c.Cloudinary.ApiKey, c.Cloudinary.ApiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryStore{
		Env:      env,
		Collator: collator,
		cld:      cld,
		folder:   c.Cloudinary.ImageFolder,
	}, nil
}

// UploadImage pushes the file to the configured folder and returns the
// secure URL of the hosted asset.
func (s *CloudinaryStore) UploadImage(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	if err := ValidateImage(mimeType, int64(len(data))); err != nil {
		return "", err
	}

	// the file extension must not leak into the public id
	publicID := filename
	if idx := len(filename) - len(filepath.Ext(filename)); idx > 0 {
		publicID = filename[:idx]
	}

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		s.LogErrorf(logging.GetLogTypeAssets(), "cloudinary upload of %s failed: %v", filename, err)
		return "", &UploadError{Reason: "failed to upload image"}
	}

	s.LogInfof(logging.GetLogTypeAssets(), "uploaded %s (%d bytes) as %s", filename, len(data), result.SecureURL)
	return result.SecureURL, nil
}

// ListImages returns up to maxResults assets from the configured folder,
// sorted locale-aware by public id so the gallery order matches what a
// filesystem browser would show.
func (s *CloudinaryStore) ListImages(ctx context.Context, maxResults int) ([]Reference, error) {
	if maxResults <= 0 {
		maxResults = 100
	}

	result, err := s.cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:  "image",
		MaxResults: maxResults,
	})
	if err != nil {
		s.LogErrorf(logging.GetLogTypeAssets(), "cloudinary asset listing failed: %v", err)
		return nil, err
	}

	prefix := s.folder + "/"
	references := make([]Reference, 0, len(result.Assets))
	for _, asset := range result.Assets {
		if len(s.folder) > 0 && !hasFolderPrefix(asset.PublicID, prefix) {
			continue
		}

		createdAt := ""
		if !asset.CreatedAt.IsZero() {
			createdAt = asset.CreatedAt.Format("2006-01-02 15:04:05")
		}

		references = append(references, Reference{
			ID:        asset.PublicID,
			URL:       asset.URL,
			SecureURL: asset.SecureURL,
			Width:     asset.Width,
			Height:    asset.Height,
			Format:    asset.Format,
			CreatedAt: createdAt,
		})
	}

	if s.Collator != nil {
		s.Collator.Sort(referenceLister{references: references})
	}

	s.LogDebugf(logging.GetLogTypeAssets(), "listed %d gallery images", len(references))
	return references, nil
}

func hasFolderPrefix(publicID, prefix string) bool {
	return len(publicID) >= len(prefix) && publicID[:len(prefix)] == prefix
}

// referenceLister implements the interface [collate.Lister] which can be
// passed into the receiver method Sort() of [collate.Collator], giving the
// gallery lexicographic order with locale-aware sorting instead of Go's
// default pure Unicode code point ordering.
type referenceLister struct {
	references []Reference
}

func (l referenceLister) Len() int {
	return len(l.references)
}

func (l referenceLister) Swap(i, j int) {
	temp := l.references[i]
	l.references[i] = l.references[j]
	l.references[j] = temp
}

func (l referenceLister) Bytes(i int) []byte {
	// returns the bytes of the public id at index i
	return []byte(l.references[i].ID)
}
