package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// PathValidator checks the on-disk locations of the archive and its index
// before they are opened.
type PathValidator struct {
	// AllowedBaseDirs restricts paths to these directories; empty allows all.
	AllowedBaseDirs []string
	MaxPathLength   int
}

// NewPathValidator allows any directory. Paths still have to be free of
// control characters and traversal components.
func NewPathValidator() *PathValidator {
	return &PathValidator{MaxPathLength: maxPathLength}
}

// NewRestrictedPathValidator only allows paths below ~/.narou and the temp dir.
func NewRestrictedPathValidator() *PathValidator {
	homeDir, _ := os.UserHomeDir()
	return &PathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".narou"),
			os.TempDir(),
		},
		MaxPathLength: maxPathLength,
	}
}

// Clean validates path and returns its absolute, cleaned form. A leading
// "~/" is expanded to the home directory.
func (v *PathValidator) Clean(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	for _, r := range path {
		if r < 32 {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed: %s", path)
		}
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("only ~/ is expanded: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	if err := v.checkBaseDirs(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func (v *PathValidator) checkBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, base := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
}

// ArchiveFile validates the bbolt file path and creates its parent directory.
// An existing directory at path is rejected.
func (v *PathValidator) ArchiveFile(path string) (string, error) {
	clean, err := v.Clean(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", clean)
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}
	return clean, nil
}

// IndexDir validates the bleve index path. Bleve indexes are directories,
// so an existing regular file at path is rejected. The directory itself is
// left for bleve to create.
func (v *PathValidator) IndexDir(path string) (string, error) {
	clean, err := v.Clean(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(clean); err == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", clean)
	}
	return clean, nil
}
