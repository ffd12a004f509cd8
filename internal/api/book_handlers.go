// Handlers for the book endpoints. The create handler is the pipeline's
// calling collaborator: it saves the upload, runs the pipeline through the
// shared ingestor and persists the result.

package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rsanur/libra-go/internal/library"
	"github.com/rsanur/libra-go/internal/pipeline"
	"github.com/rsanur/libra-go/internal/store"
)

// createBookResponse wraps the created record with the one pipeline
// condition the client should know about: a missing cover.
type createBookResponse struct {
	Book       interface{} `json:"book"`
	CoverError string      `json:"cover_error,omitempty"`
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config()
	maxBytes := int64(cfg.Uploads.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		RespondWithError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload too large or malformed (limit %d MB)", cfg.Uploads.MaxUploadMB))
		return
	}

	file, header, err := r.FormFile("book_file")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Missing 'book_file' upload field")
		return
	}
	defer file.Close()

	if !library.IsSupportedDocument(header.Filename) {
		RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type: %s", filepath.Ext(header.Filename)))
		return
	}

	// Spool the upload to the tmp directory; the ingestor copies it into
	// the books directory itself.
	tmpFile, err := os.CreateTemp(cfg.Uploads.TmpDir, "upload_*"+filepath.Ext(header.Filename))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmpFile, file)
	if cerr := tmpFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	input := pipeline.UserInput{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		Description: r.FormValue("description"),
	}
	compose := r.FormValue("compose") == "true"

	book, err := s.ingestor.IngestFile(r.Context(), tmpPath, header.Filename, input, compose)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidationFailed) {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Failed to ingest upload %s: %v", header.Filename, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create book")
		return
	}

	resp := createBookResponse{Book: book}
	if book.CoverName == "" {
		resp.CoverError = "cover generation failed; run the regen-covers job to retry"
	}
	RespondWithJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list books")
		return
	}
	RespondWithJSON(w, http.StatusOK, books)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	book, err := s.store.GetBook(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Book not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to fetch book")
		return
	}
	RespondWithJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	book, err := s.store.GetBook(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Book not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to fetch book")
		return
	}

	if err := s.store.DeleteBook(id); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete book")
		return
	}
	library.DeleteBookFiles(s.app.Config(), book)

	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
