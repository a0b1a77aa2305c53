package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStorage writes campaign images to local disk and serves them under a
// URL prefix. Uploads happen before the campaign row insert; a failed insert
// triggers Delete so no orphaned file is left behind.
type ImageStorage struct {
	BaseDir   string
	URLPrefix string
}

func NewImageStorage() *ImageStorage {
	baseDir := os.Getenv("UPLOAD_DIR")
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &ImageStorage{BaseDir: baseDir, URLPrefix: "/uploads"}
}

// Save stores image bytes under a generated key and returns (key, url).
func (s *ImageStorage) Save(data []byte, originalName string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	key := uuid.New().String() + ext

	dest := filepath.Join(s.BaseDir, key)
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", "", fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", "", fmt.Errorf("storage: write: %w", err)
	}

	return key, s.URLPrefix + "/" + key, nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *ImageStorage) Delete(key string) error {
	dest := filepath.Join(s.BaseDir, key)
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}
