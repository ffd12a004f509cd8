// This file builds the optional cover-page composite: a new PDF consisting
// of a rendered cover page followed by every page of the original document
// in order. Composition is strictly additive; on any failure the original
// file remains the canonical reference and no partially written file is
// ever exposed.

package cover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rsanur/libra-go/internal/models"
)

// ComposeCoverPage renders the template cover into a one-page PDF and
// prepends it to the original document. The composite is assembled in the
// tmp directory and only renamed into the books directory once it has been
// validated, so a failure at any stage leaves nothing half-written in
// place. All intermediate files are removed on every exit path.
func (s *Synthesizer) ComposeCoverPage(ctx context.Context, docPath, title, author string) (*models.CompositionResult, error) {
	if !strings.EqualFold(filepath.Ext(docPath), ".pdf") {
		return nil, fmt.Errorf("cover page composition requires a PDF document, got %s", filepath.Ext(docPath))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origInfo, err := os.Stat(docPath)
	if err != nil {
		return nil, fmt.Errorf("source document unreadable: %w", err)
	}

	if err := os.MkdirAll(s.tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tmp directory: %w", err)
	}
	if err := os.MkdirAll(s.booksDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create books directory: %w", err)
	}

	// Intermediate artifacts, cleaned up no matter how we exit.
	coverPNG := filepath.Join(s.tmpDir, uniqueName("coverpage", "png"))
	coverPDF := filepath.Join(s.tmpDir, uniqueName("coverpage", "pdf"))
	mergedTmp := filepath.Join(s.tmpDir, uniqueName("composite", "pdf"))
	defer func() {
		os.Remove(coverPNG)
		os.Remove(coverPDF)
		os.Remove(mergedTmp)
	}()

	img := RenderTemplate(title, author)
	if err := imaging.Save(img, coverPNG); err != nil {
		return nil, fmt.Errorf("failed to write cover page image: %w", err)
	}

	// Image -> one-page PDF, then [cover] + [original] -> composite.
	if err := api.ImportImagesFile([]string{coverPNG}, coverPDF, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to build cover page document: %w", err)
	}
	if err := api.MergeCreateFile([]string{coverPDF, docPath}, mergedTmp, false, nil); err != nil {
		return nil, fmt.Errorf("failed to merge cover page with document: %w", err)
	}
	if err := api.ValidateFile(mergedTmp, nil); err != nil {
		return nil, fmt.Errorf("composite document failed validation: %w", err)
	}

	pageCount, err := api.PageCountFile(mergedTmp)
	if err != nil {
		return nil, fmt.Errorf("failed to count composite pages: %w", err)
	}

	fileName := uniqueName("book", "pdf")
	finalPath := filepath.Join(s.booksDir, fileName)
	if err := os.Rename(mergedTmp, finalPath); err != nil {
		return nil, fmt.Errorf("failed to move composite into place: %w", err)
	}

	return &models.CompositionResult{
		Path:             finalPath,
		FileName:         fileName,
		PageCount:        pageCount,
		OriginalFileName: filepath.Base(docPath),
		OriginalFileSize: origInfo.Size(),
	}, nil
}
