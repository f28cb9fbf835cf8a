package validation

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ImageConstraints defines validation rules for avatar uploads
type ImageConstraints struct {
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// AvatarConstraints returns the upload rules for avatar images.
// Only the filename extension is checked here; the upload is decoded and
// re-encoded to PNG afterwards, which rejects non-image payloads.
func AvatarConstraints(maxSize int64) ImageConstraints {
	return ImageConstraints{
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
		},
		MaxSize: maxSize,
	}
}

// ValidateImageFile validates an uploaded file header against the constraints
func ValidateImageFile(header *multipart.FileHeader, constraints ImageConstraints) error {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("please upload an image (jpg, jpeg or png)")
	}

	return nil
}
