// This file defines the core data structures (models) for the application.
// These structs represent the books in the library and the transient results
// produced by the metadata/cover pipeline while a book is being created.

package models

import "time"

// Extraction methods recorded on a book so we know where its metadata came from.
const (
	MethodProperties = "properties" // embedded document properties
	MethodContent    = "content"    // heuristics over the first page of text
	MethodFilename   = "filename"   // parsed from the uploaded file name
	MethodFallback   = "fallback"   // cleaned filename used as a last resort
)

// Cover origins.
const (
	CoverOriginRaster   = "first-page-raster"
	CoverOriginTemplate = "template-generated"
)

// Book represents a single book record in the library.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description,omitempty"`

	FilePath string `json:"-"` // absolute path on disk, never exposed
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`

	CoverPath       string `json:"-"`
	CoverName       string `json:"cover_name,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	CoverOrigin     string `json:"cover_origin,omitempty"`
	CoverIsFallback bool   `json:"cover_is_fallback,omitempty"`

	// Set when a cover page was composed into the served file; the untouched
	// upload is kept on disk and described by these two fields.
	OriginalFileName string `json:"original_file_name,omitempty"`
	OriginalFileSize int64  `json:"original_file_size,omitempty"`

	PageCount        int       `json:"page_count,omitempty"`
	ExtractionMethod string    `json:"extraction_method"`
	Confidence       int       `json:"confidence"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"-"`
}

// ExtractionResult holds the metadata guessed for one upload. It lives only
// for the duration of the request; its fields are copied onto the Book.
type ExtractionResult struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PageCount   int    `json:"page_count"`
	Confidence  int    `json:"confidence"`
	Method      string `json:"method"`
}

// CoverResult describes one generated cover image file.
type CoverResult struct {
	Path       string `json:"-"`
	FileName   string `json:"file_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SizeBytes  int64  `json:"size_bytes"`
	Origin     string `json:"origin"`
	IsFallback bool   `json:"is_fallback"`
}

// CompositionResult describes a regenerated document with a cover page
// prepended. The original upload is preserved and referenced as a backup.
type CompositionResult struct {
	Path             string `json:"-"`
	FileName         string `json:"file_name"`
	PageCount        int    `json:"page_count"`
	OriginalFileName string `json:"original_file_name"`
	OriginalFileSize int64  `json:"original_file_size"`
}

// ProcessResult is what the pipeline hands back to the book-creation handler.
// Cover is nil when cover generation failed; CoverError carries the reason so
// the handler can record the condition without failing the upload.
type ProcessResult struct {
	Extraction  *ExtractionResult  `json:"extraction"`
	Cover       *CoverResult       `json:"cover,omitempty"`
	CoverError  string             `json:"cover_error,omitempty"`
	Composition *CompositionResult `json:"composition,omitempty"`
}
