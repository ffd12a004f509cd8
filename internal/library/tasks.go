// This file implements the background job tasks: sweeping stale temporary
// pipeline artifacts and regenerating covers for books that lack one.

package library

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rsanur/libra-go/internal/cover"
	"github.com/rsanur/libra-go/internal/jobs"
	"github.com/rsanur/libra-go/internal/store"
)

// Temp files older than this are fair game for the sweeper. Anything
// younger may still belong to an in-flight upload.
const tempMaxAge = time.Hour

// TempSweep removes stale intermediate files from the tmp directory. The
// pipeline cleans up after itself on every exit path; this job only catches
// leftovers from crashes and kills.
func TempSweep(ctx jobs.JobContext) {
	tmpDir := ctx.Config().Uploads.TmpDir
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		log.Printf("Temp sweep could not read %s: %v", tmpDir, err)
		return
	}

	cutoff := time.Now().Add(-tempMaxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(tmpDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("Temp sweep failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Temp sweep removed %d stale files from %s", removed, tmpDir)
	}
}

// RegenerateCovers synthesizes covers for books that have none, e.g. after
// an earlier cover write failure.
func RegenerateCovers(ctx jobs.JobContext) {
	st := store.New(ctx.DB())
	books, err := st.GetBooksWithoutCover()
	if err != nil {
		log.Printf("Cover regeneration could not list books: %v", err)
		return
	}
	if len(books) == 0 {
		return
	}

	synth := cover.NewSynthesizer(ctx.Config())
	for _, book := range books {
		result, err := synth.Synthesize(context.Background(), book.FilePath, book.Title, book.Author)
		if err != nil {
			log.Printf("Cover regeneration failed for book %d (%s): %v", book.ID, book.Title, err)
			continue
		}
		if err := st.UpdateBookCover(book.ID, result); err != nil {
			log.Printf("Failed to save regenerated cover for book %d: %v", book.ID, err)
			os.Remove(result.Path)
			continue
		}
		log.Printf("Regenerated cover for book %d (%s)", book.ID, book.Title)
	}
}
