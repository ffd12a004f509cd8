// This file reads embedded document properties and, when those are missing,
// scans the first lines of extracted text for title-like and author-like
// lines. Extraction problems never propagate as errors: the coordinator
// always needs a result object to continue its fallback chain.

package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
)

// How many leading non-empty text lines are scanned for candidates.
const maxScannedLines = 20

// DocInfo carries everything the coordinator can learn from the document
// itself. Err records why extraction came back empty, if it did.
type DocInfo struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	CreationDate string
	PageCount    int
	SampledText  string
	Err          string
}

// DocumentReader extracts DocInfo from a stored file. Implementations must
// not fail on unreadable documents; they report the reason in DocInfo.Err.
type DocumentReader interface {
	ReadDocument(path string) DocInfo
}

// FitzReader reads PDF documents through MuPDF.
type FitzReader struct{}

// NewFitzReader returns a DocumentReader backed by go-fitz.
func NewFitzReader() *FitzReader {
	return &FitzReader{}
}

// ReadDocument opens the document, pulls its embedded properties and samples
// the first page or two of text. A corrupt or unsupported file yields an
// empty DocInfo with Err set so the caller can fall back to the filename.
func (r *FitzReader) ReadDocument(path string) DocInfo {
	doc, err := fitz.New(path)
	if err != nil {
		return DocInfo{Err: "failed to open document: " + err.Error()}
	}
	defer doc.Close()

	info := DocInfo{PageCount: doc.NumPage()}

	meta := doc.Metadata()
	info.Title = strings.TrimSpace(meta["title"])
	info.Author = strings.TrimSpace(meta["author"])
	info.Subject = strings.TrimSpace(meta["subject"])
	info.Creator = strings.TrimSpace(meta["creator"])
	info.CreationDate = strings.TrimSpace(meta["creationDate"])

	// Sample text from the first page, and the second if the first is short
	// (common for sparse title pages).
	var sampled strings.Builder
	for n := 0; n < doc.NumPage() && n < 2; n++ {
		text, err := doc.Text(n)
		if err != nil {
			continue
		}
		sampled.WriteString(text)
		if sampled.Len() > 400 {
			break
		}
		sampled.WriteString("\n")
	}
	info.SampledText = sampled.String()

	return info
}

var (
	byLineRe     = regexp.MustCompile(`(?i)^by[:\s]+(.+)$`)
	authorLineRe = regexp.MustCompile(`(?i)^author[:\s]+(.+)$`)
	digitsRe     = regexp.MustCompile(`[0-9]`)
)

// Markers that disqualify a line from being a title.
var boilerplateMarkers = []string{
	"page ", "chapter ", "contents", "copyright", "isbn", "all rights reserved",
	"www.", "http",
}

// scanTextForTitleAuthor inspects the first non-empty lines of body text and
// returns the best title and author candidates it finds. Either result may
// be empty.
func scanTextForTitleAuthor(text string) (title, author string) {
	lines := leadingLines(text, maxScannedLines)

	// Explicit "by <name>" / "author: <name>" markers anywhere in the
	// scanned window take priority for the author.
	for _, line := range lines {
		if m := byLineRe.FindStringSubmatch(line); m != nil {
			if candidate := strings.TrimSpace(m[1]); isAuthorShaped(candidate) {
				author = candidate
				break
			}
		}
		if m := authorLineRe.FindStringSubmatch(line); m != nil {
			if candidate := strings.TrimSpace(m[1]); isAuthorShaped(candidate) {
				author = candidate
				break
			}
		}
	}

	for _, line := range lines {
		if title == "" && isTitleCandidate(line) {
			title = line
			continue
		}
		if author == "" && line != title && isAuthorShaped(line) {
			author = line
		}
		if title != "" && author != "" {
			break
		}
	}

	return title, author
}

// leadingLines returns up to max trimmed, non-empty lines from text.
func leadingLines(text string, max int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= max {
			break
		}
	}
	return lines
}

// isTitleCandidate applies the length, digit-ratio and boilerplate checks.
func isTitleCandidate(line string) bool {
	if len(line) < 3 || len(line) > 100 {
		return false
	}
	digits := len(digitsRe.FindAllString(line, -1))
	if digits*2 >= len(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	// Pure numbers (page markers) are never titles.
	if strings.IndexFunc(line, func(r rune) bool { return unicode.IsLetter(r) }) == -1 {
		return false
	}
	return true
}

// isAuthorShaped reports whether a line looks like a person's name: 2-4
// words, most of them starting with a capital letter, no digits.
func isAuthorShaped(line string) bool {
	if digitsRe.MatchString(line) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		if r := []rune(w); unicode.IsUpper(r[0]) {
			capitalized++
		}
	}
	return capitalized*2 > len(words)
}
