// This file contains the pipeline coordinator. It runs the metadata
// extraction chain (document properties, then content heuristics, then the
// filename) over an uploaded file, reconciles the outcome with whatever the
// user supplied, and finally asks the cover synthesizer for a cover built
// from the finalized title and author.

package pipeline

import (
	"context"
	"errors"
	"log"
	"path/filepath"

	"github.com/rsanur/libra-go/internal/models"
)

// ErrValidationFailed is returned when every fallback leaves both title and
// author empty. The caller must surface this to the end user instead of
// persisting a book with empty required fields.
var ErrValidationFailed = errors.New("could not determine title or author; please supply them manually")

// Confidence contributions per successful sub-extraction. The score is an
// additive heuristic counter, not a probability.
const (
	confPropertyTitle  = 30
	confPropertyAuthor = 25
	confSubject        = 10
	confCreationDate   = 5
	confContentTitle   = 25
	confContentAuthor  = 20
	confFilenameTitle  = 20
	confFilenameAuthor = 15
)

// DefaultOverrideConfidence is the accumulated-confidence bar above which
// extracted metadata is trusted over explicit user input. The value equals
// the strongest single signal (an embedded property title), so an override
// requires at least two independent signals to agree.
const DefaultOverrideConfidence = 30

// UserInput carries the optional user-supplied fields for one upload.
type UserInput struct {
	Title       string
	Author      string
	Genre       string
	Description string
}

// CoverSynthesizer produces cover artifacts for finalized metadata. The
// cover package provides the real implementation.
type CoverSynthesizer interface {
	Synthesize(ctx context.Context, docPath, title, author string) (*models.CoverResult, error)
	ComposeCoverPage(ctx context.Context, docPath, title, author string) (*models.CompositionResult, error)
}

// Options tune a Coordinator.
type Options struct {
	// OverrideConfidence replaces DefaultOverrideConfidence when > 0.
	OverrideConfidence int
	// ComposeCoverPage enables cover-page composition for requests that ask
	// for it.
	ComposeCoverPage bool
}

// Coordinator orchestrates extraction, classification and cover synthesis
// for a single upload. It is stateless across invocations; concurrent use
// is safe.
type Coordinator struct {
	reader     DocumentReader
	classifier *Classifier
	synth      CoverSynthesizer
	opts       Options
}

// NewCoordinator wires a Coordinator. classifier may be nil to use the
// default tables; reader and synth must be non-nil.
func NewCoordinator(reader DocumentReader, classifier *Classifier, synth CoverSynthesizer, opts Options) *Coordinator {
	if classifier == nil {
		classifier = NewClassifier(nil, nil)
	}
	if opts.OverrideConfidence <= 0 {
		opts.OverrideConfidence = DefaultOverrideConfidence
	}
	return &Coordinator{reader: reader, classifier: classifier, synth: synth, opts: opts}
}

// Process runs the full pipeline for one stored file. originalName is the
// name the file was uploaded under, used for filename heuristics; when
// empty the stored file's base name is used. compose requests cover-page
// composition in addition to the cover image; it is honored only when
// enabled in the options.
//
// The only error returned is ErrValidationFailed. Extraction and
// rasterization problems are recovered internally; a cover write failure is
// reported through ProcessResult.CoverError with a nil Cover.
func (c *Coordinator) Process(ctx context.Context, filePath, originalName string, input UserInput, compose bool) (*models.ProcessResult, error) {
	if originalName == "" {
		originalName = filepath.Base(filePath)
	}
	ext := c.extract(filePath, originalName)

	title, author := c.applyPrecedence(ext, input)
	if title == "" && author == "" {
		return nil, ErrValidationFailed
	}

	genre := input.Genre
	if genre == "" {
		genre = ext.Genre
	}
	description := input.Description
	if description == "" {
		description = ext.Description
	}

	final := *ext
	final.Title = title
	final.Author = author
	final.Genre = genre
	final.Description = description

	result := &models.ProcessResult{Extraction: &final}

	// Cover invocation happens only after title/author are finalized, since
	// the template path renders those strings.
	cover, err := c.synth.Synthesize(ctx, filePath, title, author)
	if err != nil {
		log.Printf("Cover generation failed for %s: %v", filePath, err)
		result.CoverError = err.Error()
		return result, nil
	}
	result.Cover = cover

	if compose && c.opts.ComposeCoverPage {
		comp, err := c.synth.ComposeCoverPage(ctx, filePath, title, author)
		if err != nil {
			// Composition is strictly additive: the original file stays
			// canonical and the failure is not surfaced to the user.
			log.Printf("Cover page composition failed for %s: %v", filePath, err)
		} else {
			result.Composition = comp
		}
	}

	return result, nil
}

// extract runs the metadata fallback chain: document properties, then
// content heuristics, then the filename, then the cleaned filename as a
// last-resort title.
func (c *Coordinator) extract(filePath, originalName string) *models.ExtractionResult {
	ext := &models.ExtractionResult{Method: models.MethodFallback}

	var doc DocInfo
	if c.reader != nil {
		doc = c.reader.ReadDocument(filePath)
	}
	if doc.Err != "" {
		log.Printf("Document extraction unavailable for %s: %s", filePath, doc.Err)
	}
	ext.PageCount = doc.PageCount

	if doc.Title != "" {
		ext.Title = doc.Title
		ext.Confidence += confPropertyTitle
		ext.Method = models.MethodProperties
	}
	if doc.Author != "" {
		ext.Author = doc.Author
		ext.Confidence += confPropertyAuthor
	}
	if doc.Subject != "" {
		ext.Description = doc.Subject
		ext.Confidence += confSubject
	}
	if doc.CreationDate != "" {
		ext.Confidence += confCreationDate
	}

	if ext.Title == "" || ext.Author == "" {
		ctTitle, ctAuthor := scanTextForTitleAuthor(doc.SampledText)
		if ext.Title == "" && ctTitle != "" {
			ext.Title = ctTitle
			ext.Confidence += confContentTitle
			ext.Method = models.MethodContent
		}
		if ext.Author == "" && ctAuthor != "" {
			ext.Author = ctAuthor
			ext.Confidence += confContentAuthor
		}
	}

	if ext.Title == "" || ext.Author == "" {
		fnTitle, fnAuthor := ParseFilename(originalName)
		if fnAuthor != "" {
			// The name had recognizable structure.
			if ext.Title == "" && fnTitle != "" {
				ext.Title = fnTitle
				ext.Confidence += confFilenameTitle
				ext.Method = models.MethodFilename
			}
			if ext.Author == "" {
				ext.Author = fnAuthor
				ext.Confidence += confFilenameAuthor
			}
		} else if ext.Title == "" && fnTitle != "" {
			// Last resort: the cleaned filename becomes the title with no
			// confidence contribution.
			ext.Title = fnTitle
			ext.Method = models.MethodFallback
		}
	}

	ext.Genre = c.classifier.Classify(ext.Title, ext.Author, ext.Description, doc.SampledText)
	return ext
}

// applyPrecedence reconciles extracted metadata with explicit user input.
// User input wins unless the accumulated extraction confidence exceeds the
// override threshold, in which case the extracted value replaces it. That
// override of explicit input is a deliberate, documented policy.
func (c *Coordinator) applyPrecedence(ext *models.ExtractionResult, input UserInput) (title, author string) {
	confident := ext.Confidence > c.opts.OverrideConfidence

	title = input.Title
	if title == "" || (confident && ext.Title != "") {
		title = ext.Title
	}
	author = input.Author
	if author == "" || (confident && ext.Author != "") {
		author = ext.Author
	}
	return title, author
}
