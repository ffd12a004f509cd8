// This file implements the first-page raster path: render page 1 of the
// source document through MuPDF, downscale it, and letterbox it onto the
// canonical cover canvas. Rendering is bounded by a timeout and retried at
// decreasing resolutions before the synthesizer falls back to the template.

package cover

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/nfnt/resize"
)

// DPI presets tried from high to low. Large or degenerate documents that
// time out at 150 DPI often still render at 72.
var dpiPresets = []float64{150, 96, 72}

// Neutral fill behind letterboxed pages.
var letterboxFill = color.RGBA{R: 24, G: 24, B: 28, A: 255}

// rasterizableExtensions lists the formats MuPDF can render page 1 of.
var rasterizableExtensions = map[string]bool{
	".pdf":  true,
	".epub": true,
}

// IsRasterizable reports whether the raster path applies to the given file.
func IsRasterizable(path string) bool {
	return rasterizableExtensions[strings.ToLower(filepath.Ext(path))]
}

// renderFirstPage renders page 1 of the document, trying each DPI preset
// under the configured timeout. It returns an error only after the last
// preset fails; the caller falls through to the template path.
func renderFirstPage(ctx context.Context, docPath string, timeout time.Duration) (image.Image, error) {
	var lastErr error
	for _, dpi := range dpiPresets {
		img, err := renderPageWithTimeout(ctx, docPath, dpi, timeout)
		if err == nil {
			return img, nil
		}
		lastErr = err
		log.Printf("Rasterization at %.0f DPI failed for %s: %v", dpi, docPath, err)
	}
	return nil, fmt.Errorf("all rasterization presets failed: %w", lastErr)
}

// renderPageWithTimeout runs one render attempt in a goroutine and races it
// against the timeout. MuPDF calls cannot be cancelled mid-flight, so on
// timeout the attempt's eventual result is discarded via the buffered
// channel and the goroutine is left to finish on its own.
func renderPageWithTimeout(ctx context.Context, docPath string, dpi float64, timeout time.Duration) (image.Image, error) {
	type renderResult struct {
		img image.Image
		err error
	}

	ch := make(chan renderResult, 1)
	go func() {
		img, err := renderPage(docPath, dpi)
		ch <- renderResult{img: img, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.img, res.err
	case <-timer.C:
		return nil, fmt.Errorf("rasterization timed out after %s", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func renderPage(docPath string, dpi float64) (image.Image, error) {
	doc, err := fitz.New(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page 1: %w", err)
	}
	return img, nil
}

// fitToCover downscales the page image to fit within the canonical cover
// size and centers it on a letterbox canvas.
func fitToCover(page image.Image) *image.NRGBA {
	bounds := page.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	// Scale along the tighter dimension, never upscale.
	var resized image.Image = page
	if srcW > CoverWidth || srcH > CoverHeight {
		if srcW*CoverHeight > srcH*CoverWidth {
			resized = resize.Resize(CoverWidth, 0, page, resize.Lanczos3)
		} else {
			resized = resize.Resize(0, CoverHeight, page, resize.Lanczos3)
		}
	}

	canvas := imaging.New(CoverWidth, CoverHeight, letterboxFill)
	return imaging.PasteCenter(canvas, resized)
}
