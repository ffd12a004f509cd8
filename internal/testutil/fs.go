package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rsanur/libra-go/internal/config"
)

// SetupTestConfig builds a Config whose storage directories all live under
// a per-test temporary directory.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(root, "libra.db")
	cfg.Uploads.BooksDir = filepath.Join(root, "books")
	cfg.Uploads.CoversDir = filepath.Join(root, "covers")
	cfg.Uploads.TmpDir = filepath.Join(root, "tmp")
	cfg.Import.Path = filepath.Join(root, "import")

	for _, dir := range []string{cfg.Uploads.BooksDir, cfg.Uploads.CoversDir, cfg.Uploads.TmpDir, cfg.Import.Path} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create test directory %s: %v", dir, err)
		}
	}
	return cfg
}

// CreateTestPNG writes a small solid-color PNG and returns its path.
func CreateTestPNG(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 180))
	for y := 0; y < 180; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 120, B: 200, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

// CreateTestPDF builds a real single-page PDF by importing a generated image.
// It is useful for exercising the rasterizer and the cover page composer
// without shipping binary fixtures.
func CreateTestPDF(t *testing.T, dir, name string) string {
	t.Helper()

	imgPath := CreateTestPNG(t, dir, "page_"+name+".png")
	pdfPath := filepath.Join(dir, name)
	if err := api.ImportImagesFile([]string{imgPath}, pdfPath, nil, nil); err != nil {
		t.Fatalf("Failed to build test PDF: %v", err)
	}
	os.Remove(imgPath)
	return pdfPath
}
