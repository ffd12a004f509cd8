package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// EnsureDir validates a storage directory path and creates it if needed.
// Returns an error if the path exists but is not a writable directory, or
// if it cannot be created.
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}

	// Clean the path to remove any directory traversal attempts
	cleanPath := filepath.Clean(dirPath)
	if strings.Contains(dirPath, "..") {
		return fmt.Errorf("directory path contains invalid directory traversal")
	}

	info, err := os.Stat(cleanPath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", cleanPath)
		}
		if err := checkWritePermission(cleanPath); err != nil {
			return fmt.Errorf("no write permission for directory: %w", err)
		}
		return nil
	}

	if os.IsNotExist(err) {
		if err := os.MkdirAll(cleanPath, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
		return nil
	}

	return fmt.Errorf("cannot access path: %w", err)
}

// checkWritePermission checks if we have write permission to a directory
func checkWritePermission(dirPath string) error {
	// Try to create a temporary file in the directory
	tempFile := filepath.Join(dirPath, ".libra_temp_check")
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}
	file.Close()

	// Clean up the temporary file
	os.Remove(tempFile)
	return nil
}

var unsafeFilenameRe = regexp.MustCompile(`[^\w\s.()\[\]'-]`)

// SanitizeFileName strips path separators and unsafe characters from an
// uploaded file's name so it is safe to use on the local filesystem.
func SanitizeFileName(name string) string {
	// Drop any directory components a hostile client may have included.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
