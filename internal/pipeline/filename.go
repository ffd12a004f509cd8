// This file handles the logic for guessing a title and author from an
// uploaded file's original name. Patterns are tried in a fixed priority
// order and the first structurally valid match wins; there is no scoring
// across patterns.

package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxTitleLen  = 200
	maxAuthorLen = 100
)

var (
	// "Title by Author"
	byPatternRe = regexp.MustCompile(`(?i)^(.{3,}?)\s+by\s+(.{2,}?)$`)
	// "Left - Right"; which half is the author is decided by name shape.
	dashPatternRe = regexp.MustCompile(`^(.{1,}?)\s+-\s+(.{1,}?)$`)
	// "Title (Author)"
	parenPatternRe = regexp.MustCompile(`^(.{3,}?)\s*\(([^()]{2,})\)$`)
)

// Literal separators tried when no pattern matches.
var literalSeparators = []string{" - ", " – ", " by ", " By "}

// Leading words that disqualify a dash prefix from being read as an author
// name ("The Great Gatsby - ..." is a title, not a person).
var articleWords = map[string]bool{
	"the": true, "a": true, "an": true, "on": true, "of": true, "in": true,
}

// ParseFilename heuristically splits an uploaded file's original name into a
// candidate title and author. Both returned strings may be empty but the
// function never fails; a name with no recognizable structure degrades to
// title-only.
func ParseFilename(originalName string) (title, author string) {
	name := normalizeFilename(stripExtension(originalName))
	if name == "" {
		return "", ""
	}

	// Pattern 1: "Title by Author". The author half may be arbitrarily long.
	if m := byPatternRe.FindStringSubmatch(name); m != nil {
		t, a := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if validPair(t, a) {
			return t, a
		}
	}

	// Pattern 2: "Author - Title", only when the prefix is unmistakably
	// name-shaped (2-3 capitalized words, no leading article).
	if m := dashPatternRe.FindStringSubmatch(name); m != nil {
		left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if looksLikeAuthorPrefix(left) && validPair(right, left) {
			return right, left
		}
		// Pattern 3: "Title - Author". The default reading of a dash split.
		if validPair(left, right) {
			return left, right
		}
	}

	// Pattern 4: "Title (Author)".
	if m := parenPatternRe.FindStringSubmatch(name); m != nil {
		t, a := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if validPair(t, a) {
			return t, a
		}
	}

	// Literal separator fallback: split and decide which half is the author
	// by name shape.
	for _, sep := range literalSeparators {
		idx := strings.Index(name, sep)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(name[:idx])
		right := strings.TrimSpace(name[idx+len(sep):])
		if left == "" || right == "" {
			continue
		}
		if looksLikePersonName(right) && validPair(left, right) {
			return left, right
		}
		if looksLikePersonName(left) && validPair(right, left) {
			return right, left
		}
	}

	// Nothing matched: the whole cleaned name becomes the title.
	return truncate(removeBrackets(name), maxTitleLen), ""
}

// stripExtension removes the final extension, if any.
func stripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var (
	underscoreRe = regexp.MustCompile(`_+`)
	multiDashRe  = regexp.MustCompile(`\s*-{2,}\s*`)
	bracketRe    = regexp.MustCompile(`[\[\]{}()]`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// normalizeFilename cleans separators but keeps parentheses so that the
// "Title (Author)" pattern can still see them.
func normalizeFilename(name string) string {
	name = underscoreRe.ReplaceAllString(name, " ")
	name = multiDashRe.ReplaceAllString(name, " - ")
	for _, b := range []string{"[", "]", "{", "}"} {
		name = strings.ReplaceAll(name, b, " ")
	}
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// removeBrackets strips any bracket characters left after pattern matching.
func removeBrackets(name string) string {
	name = bracketRe.ReplaceAllString(name, " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// looksLikePersonName reports whether s has the shape of a person's name:
// at most 3 words, each starting with an uppercase letter, no digits.
func looksLikePersonName(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if !unicode.IsUpper(r[0]) {
			return false
		}
		for _, c := range r {
			if unicode.IsDigit(c) {
				return false
			}
		}
	}
	return true
}

// looksLikeAuthorPrefix is a stricter variant used for the "Author - Title"
// reading: a single word before a dash is far more likely to be a title
// ("Dune - Frank Herbert"), so two words minimum are required here.
func looksLikeAuthorPrefix(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	if articleWords[strings.ToLower(words[0])] {
		return false
	}
	return looksLikePersonName(s)
}

// validPair checks the matched groups are non-empty and within length bounds.
func validPair(title, author string) bool {
	return title != "" && author != "" &&
		len(title) <= maxTitleLen && len(author) <= maxAuthorLen
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
