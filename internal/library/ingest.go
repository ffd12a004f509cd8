// This file contains the single ingestion path every entry point shares:
// the upload handler, the import watcher and the CLI all funnel a source
// file through Ingestor.IngestFile, which stores the file, runs the
// metadata/cover pipeline and persists the resulting book record.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rsanur/libra-go/internal/config"
	"github.com/rsanur/libra-go/internal/cover"
	"github.com/rsanur/libra-go/internal/models"
	"github.com/rsanur/libra-go/internal/pipeline"
	"github.com/rsanur/libra-go/internal/store"
	"github.com/rsanur/libra-go/internal/util"
)

// allowedExtensions is the upload allow-list, checked before the pipeline
// runs.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".epub": true,
}

// IsSupportedDocument reports whether a filename passes the allow-list.
func IsSupportedDocument(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Ingestor owns the shared book-creation flow.
type Ingestor struct {
	cfg   *config.Config
	st    *store.Store
	coord *pipeline.Coordinator
}

// NewIngestor wires an Ingestor with the real document reader and cover
// synthesizer.
func NewIngestor(cfg *config.Config, db *sql.DB) *Ingestor {
	synth := cover.NewSynthesizer(cfg)
	coord := pipeline.NewCoordinator(pipeline.NewFitzReader(), nil, synth, pipeline.Options{
		OverrideConfidence: cfg.Pipeline.OverrideConfidence,
		ComposeCoverPage:   cfg.Pipeline.ComposeCoverPage,
	})
	return &Ingestor{cfg: cfg, st: store.New(db), coord: coord}
}

// Store exposes the ingestor's book store.
func (in *Ingestor) Store() *store.Store { return in.st }

// IngestFile copies srcPath into the books directory, runs the pipeline
// and persists the book. The source file is never modified or removed; on
// any error every artifact this call created is cleaned up again.
func (in *Ingestor) IngestFile(ctx context.Context, srcPath, originalName string, input pipeline.UserInput, compose bool) (*models.Book, error) {
	if originalName == "" {
		originalName = filepath.Base(srcPath)
	}
	if !IsSupportedDocument(originalName) {
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(originalName))
	}

	storedName := storedFileName(originalName)
	destPath := filepath.Join(in.cfg.Uploads.BooksDir, storedName)
	size, err := copyFile(srcPath, destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	result, err := in.coord.Process(ctx, destPath, originalName, input, compose)
	if err != nil {
		os.Remove(destPath)
		return nil, err
	}

	book := bookFromResult(result, destPath, storedName, size)
	created, err := in.st.CreateBook(book)
	if err != nil {
		removeArtifacts(destPath, result)
		return nil, fmt.Errorf("failed to persist book: %w", err)
	}
	return created, nil
}

// bookFromResult maps a pipeline result onto a Book record. When a cover
// page composite was produced it becomes the canonical file and the stored
// upload is kept as backup.
func bookFromResult(result *models.ProcessResult, storedPath, storedName string, size int64) *models.Book {
	ext := result.Extraction
	book := &models.Book{
		Title:            ext.Title,
		Author:           ext.Author,
		Genre:            ext.Genre,
		Description:      ext.Description,
		FilePath:         storedPath,
		FileName:         storedName,
		FileSize:         size,
		PageCount:        ext.PageCount,
		ExtractionMethod: ext.Method,
		Confidence:       ext.Confidence,
	}

	if result.Cover != nil {
		book.CoverPath = result.Cover.Path
		book.CoverName = result.Cover.FileName
		book.CoverOrigin = result.Cover.Origin
		book.CoverIsFallback = result.Cover.IsFallback
	}

	if comp := result.Composition; comp != nil {
		book.FilePath = comp.Path
		book.FileName = comp.FileName
		book.PageCount = comp.PageCount
		book.OriginalFileName = comp.OriginalFileName
		book.OriginalFileSize = comp.OriginalFileSize
	}

	return book
}

// removeArtifacts deletes the files a failed ingestion left behind.
func removeArtifacts(storedPath string, result *models.ProcessResult) {
	os.Remove(storedPath)
	if result.Cover != nil {
		os.Remove(result.Cover.Path)
	}
	if result.Composition != nil {
		os.Remove(result.Composition.Path)
	}
}

// storedFileName builds a collision-free on-disk name that still ends with
// the sanitized original name.
func storedFileName(originalName string) string {
	return fmt.Sprintf("%d_%s_%s",
		time.Now().UnixNano(), uuid.New().String()[:8], util.SanitizeFileName(originalName))
}

// copyFile copies src to dst and returns the number of bytes written. A
// partial destination is removed on error.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}
	return size, nil
}

// DeleteBookFiles removes a book's stored artifacts from disk. Missing
// files are ignored; the record is the source of truth.
func DeleteBookFiles(cfg *config.Config, book *models.Book) {
	for _, path := range []string{book.FilePath, book.CoverPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove %s: %v", path, err)
		}
	}
	// The pre-composition upload is kept alongside the composite.
	if book.OriginalFileName != "" {
		backup := filepath.Join(cfg.Uploads.BooksDir, book.OriginalFileName)
		if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove %s: %v", backup, err)
		}
	}
}
