package assets_test

import (
	"errors"
	"testing"

	"keynotes-cms/internal/assets"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  bool
	}{
		{name: "small png", mimeType: "image/png", size: 1024, wantErr: false},
		{name: "jpeg at the limit", mimeType: "image/jpeg", size: assets.MaxImageBytes, wantErr: false},
		{name: "one byte over the limit", mimeType: "image/png", size: assets.MaxImageBytes + 1, wantErr: true},
		{name: "pdf rejected", mimeType: "application/pdf", size: 1024, wantErr: true},
		{name: "missing mime type rejected", mimeType: "", size: 1024, wantErr: true},
		{name: "mime type checked before size", mimeType: "video/mp4", size: assets.MaxImageBytes * 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assets.ValidateImage(tt.mimeType, tt.size)

			if tt.wantErr {
				var uploadErr *assets.UploadError
				if !errors.As(err, &uploadErr) {
					t.Errorf("ValidateImage(%q, %d) = %v, want UploadError", tt.mimeType, tt.size, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateImage(%q, %d) = %v, want nil", tt.mimeType, tt.size, err)
			}
		})
	}
}

func TestReferenceEmbedURL(t *testing.T) {
	tests := []struct {
		name      string
		reference assets.Reference
		want      string
	}{
		{
			name:      "secure url preferred",
			reference: assets.Reference{URL: "http://cdn/a.png", SecureURL: "https://cdn/a.png"},
			want:      "https://cdn/a.png",
		},
		{
			name:      "canonical url fallback",
			reference: assets.Reference{URL: "http://cdn/b.png"},
			want:      "http://cdn/b.png",
		},
		{
			name:      "both empty",
			reference: assets.Reference{},
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reference.EmbedURL(); got != tt.want {
				t.Errorf("EmbedURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
