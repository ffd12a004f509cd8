// This file orchestrates cover generation. Path A rasterizes the first page
// of the document; Path B renders the template. Synthesize always produces
// a cover unless the final image write itself fails, which is the one
// failure the caller is expected to record on the book instead of aborting.

package cover

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/rsanur/libra-go/internal/config"
	"github.com/rsanur/libra-go/internal/models"
)

// JPEG quality for the final cover encode.
const jpegQuality = 85

// Synthesizer produces cover images and cover-page composites. It is
// stateless; concurrent uploads are isolated through unique output names
// rather than locking.
type Synthesizer struct {
	coversDir     string
	booksDir      string
	tmpDir        string
	rasterTimeout time.Duration
	attemptRaster bool
}

// NewSynthesizer builds a Synthesizer from the application configuration.
func NewSynthesizer(cfg *config.Config) *Synthesizer {
	timeout := time.Duration(cfg.Pipeline.RasterTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synthesizer{
		coversDir:     cfg.Uploads.CoversDir,
		booksDir:      cfg.Uploads.BooksDir,
		tmpDir:        cfg.Uploads.TmpDir,
		rasterTimeout: timeout,
		attemptRaster: cfg.Pipeline.AttemptFirstPage,
	}
}

// Synthesize produces a cover for the given document and metadata. The
// raster path is attempted only for rasterizable formats; any failure there
// falls through to the template, so the returned error can only be a final
// write failure.
func (s *Synthesizer) Synthesize(ctx context.Context, docPath, title, author string) (*models.CoverResult, error) {
	var (
		img        image.Image
		origin     = models.CoverOriginTemplate
		isFallback bool
	)

	if s.attemptRaster && docPath != "" && IsRasterizable(docPath) {
		page, err := renderFirstPage(ctx, docPath, s.rasterTimeout)
		if err == nil {
			img = fitToCover(page)
			origin = models.CoverOriginRaster
		} else {
			log.Printf("First-page raster failed for %s, using template cover: %v", docPath, err)
			isFallback = true
		}
	}

	if img == nil {
		img = RenderTemplate(title, author)
	}

	return s.writeCover(img, origin, isFallback)
}

// writeCover encodes the image into the covers directory under a unique
// name and returns the resulting CoverResult.
func (s *Synthesizer) writeCover(img image.Image, origin string, isFallback bool) (*models.CoverResult, error) {
	if err := os.MkdirAll(s.coversDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	fileName := uniqueName("cover", "jpg")
	path := filepath.Join(s.coversDir, fileName)

	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		// Remove whatever partial file the failed save left behind.
		os.Remove(path)
		return nil, fmt.Errorf("failed to write cover image: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat written cover: %w", err)
	}

	bounds := img.Bounds()
	return &models.CoverResult{
		Path:       path,
		FileName:   fileName,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		SizeBytes:  info.Size(),
		Origin:     origin,
		IsFallback: isFallback,
	}, nil
}

// uniqueName builds a globally unique artifact name from a timestamp and a
// short random suffix so concurrent uploads never collide.
func uniqueName(prefix, ext string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%d_%s.%s", prefix, time.Now().UnixNano(), suffix, ext)
}
