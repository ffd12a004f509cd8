// This file implements a file system watcher for the optional import
// directory. Documents dropped there are picked up through OS-level file
// system events, run through the pipeline and moved into the library.

package library

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rsanur/libra-go/internal/pipeline"
)

// WatcherService watches the import directory and ingests documents that
// appear in it.
type WatcherService struct {
	ingestor      *Ingestor
	importPath    string
	compose       bool
	watcher       *fsnotify.Watcher
	changedPaths  map[string]bool
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

// NewWatcherService creates a new import watcher.
func NewWatcherService(ingestor *Ingestor, importPath string, compose bool) *WatcherService {
	return &WatcherService{
		ingestor:      ingestor,
		importPath:    importPath,
		compose:       compose,
		changedPaths:  make(map[string]bool),
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before ingesting
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the import directory for changes.
func (w *WatcherService) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.importPath); err != nil {
		watcher.Close()
		return err
	}

	log.Printf("Import watcher started for: %s", w.importPath)
	go w.processEvents()
	return nil
}

// Stop stops the watcher service.
func (w *WatcherService) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// processEvents collects file system events and triggers debounced ingestion.
func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Import watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// handleEvent records a changed path and resets the debounce timer. Writes
// arrive in bursts while a file is being copied in, so ingestion only runs
// once the directory has been quiet for the debounce delay.
func (w *WatcherService) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !IsSupportedDocument(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.changedPaths[event.Name] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.ingestPending)
}

// ingestPending runs every collected file through the pipeline. Failures
// leave the file in the import directory so a fixed-up retry is as simple
// as touching it again.
func (w *WatcherService) ingestPending() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.changedPaths))
	for path := range w.changedPaths {
		paths = append(paths, path)
	}
	w.changedPaths = make(map[string]bool)
	w.mu.Unlock()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue // deleted again before we got to it
		}

		book, err := w.ingestor.IngestFile(context.Background(), path, filepath.Base(path), pipeline.UserInput{}, w.compose)
		if err != nil {
			log.Printf("Import of %s failed: %v", path, err)
			continue
		}

		if err := os.Remove(path); err != nil {
			log.Printf("Imported %s but could not remove it from the import directory: %v", path, err)
		}
		log.Printf("Imported book %d: %s by %s", book.ID, book.Title, book.Author)
	}
}
