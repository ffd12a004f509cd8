package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "storage")
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory to exist, err=%v", err)
		}
	})

	t.Run("accepts existing writable directory", func(t *testing.T) {
		if err := EnsureDir(t.TempDir()); err != nil {
			t.Errorf("EnsureDir failed on existing directory: %v", err)
		}
	})

	t.Run("rejects empty path", func(t *testing.T) {
		if err := EnsureDir(""); err == nil {
			t.Error("expected an error for an empty path")
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		if err := EnsureDir("../outside"); err == nil {
			t.Error("expected an error for a traversal path")
		}
	})

	t.Run("rejects file path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "plain")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if err := EnsureDir(file); err == nil {
			t.Error("expected an error for a non-directory path")
		}
	})
}

func TestSanitizeFileName(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"book.pdf", "book.pdf"},
		{"Dune - Frank Herbert.pdf", "Dune - Frank Herbert.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system32", "system32"},
		{"ird:na*me?.pdf", "ird_na_me_.pdf"},
		{"", "upload"},
		{".", "upload"},
		{"..", "upload"},
	}
	for _, tc := range testCases {
		if got := SanitizeFileName(tc.input); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
