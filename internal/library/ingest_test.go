package library_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rsanur/libra-go/internal/library"
	"github.com/rsanur/libra-go/internal/models"
	"github.com/rsanur/libra-go/internal/pipeline"
	"github.com/rsanur/libra-go/internal/testutil"
)

func TestIsSupportedDocument(t *testing.T) {
	supported := []string{"book.pdf", "book.PDF", "novel.epub", "a - b.Epub"}
	for _, name := range supported {
		if !library.IsSupportedDocument(name) {
			t.Errorf("expected %q to be supported", name)
		}
	}
	unsupported := []string{"notes.txt", "comic.cbz", "book.pdf.exe", "book"}
	for _, name := range unsupported {
		if library.IsSupportedDocument(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestIngestFile(t *testing.T) {
	cfg := testutil.SetupTestConfig(t)
	db := testutil.SetupTestDB(t)
	ingestor := library.NewIngestor(cfg, db)

	srcPath := testutil.CreateTestPDF(t, cfg.Import.Path, "Dune - Frank Herbert.pdf")

	book, err := ingestor.IngestFile(context.Background(), srcPath, "Dune - Frank Herbert.pdf", pipeline.UserInput{}, false)
	if err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}

	if book.Title != "Dune" || book.Author != "Frank Herbert" {
		t.Errorf("got title=%q author=%q", book.Title, book.Author)
	}
	if book.Genre != "Science Fiction" {
		t.Errorf("expected Science Fiction, got %q", book.Genre)
	}
	if book.ExtractionMethod != models.MethodFilename {
		t.Errorf("expected filename extraction, got %q", book.ExtractionMethod)
	}

	// The document was copied into the books directory under a unique name
	// that still ends with the sanitized original.
	if filepath.Dir(book.FilePath) != cfg.Uploads.BooksDir {
		t.Errorf("book stored at %s, expected it under %s", book.FilePath, cfg.Uploads.BooksDir)
	}
	if !strings.HasSuffix(book.FileName, ".pdf") {
		t.Errorf("stored name lost its extension: %s", book.FileName)
	}
	if _, err := os.Stat(book.FilePath); err != nil {
		t.Errorf("stored document missing: %v", err)
	}

	// The source file is never touched.
	if _, err := os.Stat(srcPath); err != nil {
		t.Errorf("source file was removed: %v", err)
	}

	// A cover was produced and recorded.
	if book.CoverName == "" {
		t.Error("expected a cover to be generated")
	}
	if _, err := os.Stat(book.CoverPath); err != nil {
		t.Errorf("cover file missing: %v", err)
	}

	// And the record is persisted.
	got, err := ingestor.Store().GetBook(book.ID)
	if err != nil {
		t.Fatalf("persisted book not found: %v", err)
	}
	if got.Title != "Dune" {
		t.Errorf("persisted title %q", got.Title)
	}
}

func TestIngestFileRejectsUnsupportedType(t *testing.T) {
	cfg := testutil.SetupTestConfig(t)
	db := testutil.SetupTestDB(t)
	ingestor := library.NewIngestor(cfg, db)

	srcPath := filepath.Join(cfg.Import.Path, "notes.txt")
	if err := os.WriteFile(srcPath, []byte("plain text"), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}

	if _, err := ingestor.IngestFile(context.Background(), srcPath, "notes.txt", pipeline.UserInput{}, false); err == nil {
		t.Error("expected an error for an unsupported document type")
	}

	// Nothing may be left in the books directory after a rejection.
	entries, err := os.ReadDir(cfg.Uploads.BooksDir)
	if err != nil {
		t.Fatalf("Failed to read books directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty books directory, found %d entries", len(entries))
	}
}

func TestIngestFileValidationFailure(t *testing.T) {
	cfg := testutil.SetupTestConfig(t)
	db := testutil.SetupTestDB(t)
	ingestor := library.NewIngestor(cfg, db)

	// A name that cleans down to nothing, no metadata, no user input.
	srcPath := testutil.CreateTestPDF(t, cfg.Import.Path, "doc.pdf")

	_, err := ingestor.IngestFile(context.Background(), srcPath, "___.pdf", pipeline.UserInput{}, false)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	// The stored copy was rolled back.
	entries, readErr := os.ReadDir(cfg.Uploads.BooksDir)
	if readErr != nil {
		t.Fatalf("Failed to read books directory: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected rollback to empty the books directory, found %d entries", len(entries))
	}
}

func TestDeleteBookFiles(t *testing.T) {
	cfg := testutil.SetupTestConfig(t)

	filePath := filepath.Join(cfg.Uploads.BooksDir, "stored.pdf")
	coverPath := filepath.Join(cfg.Uploads.CoversDir, "cover.jpg")
	backupPath := filepath.Join(cfg.Uploads.BooksDir, "original.pdf")
	for _, p := range []string{filePath, coverPath, backupPath} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}

	book := &models.Book{
		FilePath:         filePath,
		CoverPath:        coverPath,
		OriginalFileName: "original.pdf",
	}
	library.DeleteBookFiles(cfg, book)

	for _, p := range []string{filePath, coverPath, backupPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", p)
		}
	}

	// Missing files are tolerated.
	library.DeleteBookFiles(cfg, book)
}
