package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UploadDir handles the layout of the directory uploaded sources live in.
type UploadDir struct {
	BaseDir string
}

// NewUploadDir creates a new upload directory manager
func NewUploadDir(baseDir string) *UploadDir {
	return &UploadDir{
		BaseDir: baseDir,
	}
}

// EnsureExists ensures the base directory exists
func (u *UploadDir) EnsureExists() error {
	if err := os.MkdirAll(u.BaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// PathFor returns the full path of a file inside the directory.
// Any path separators in fileName are dropped.
func (u *UploadDir) PathFor(fileName string) string {
	return filepath.Join(u.BaseDir, filepath.Base(fileName))
}

// FileType determines the file type based on extension
func FileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".xlsx", ".xls":
		return "excel"
	case ".txt":
		return "text"
	default:
		return "unknown"
	}
}
