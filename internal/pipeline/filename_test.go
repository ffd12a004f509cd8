package pipeline

import (
	"strings"
	"testing"
)

func TestParseFilename(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantTitle  string
		wantAuthor string
	}{
		{
			name:       "title dash author",
			input:      "Dune - Frank Herbert.pdf",
			wantTitle:  "Dune",
			wantAuthor: "Frank Herbert",
		},
		{
			name:       "author dash title",
			input:      "Frank Herbert - Dune.pdf",
			wantTitle:  "Dune",
			wantAuthor: "Frank Herbert",
		},
		{
			name:       "title by author",
			input:      "Pride and Prejudice by Jane Austen.epub",
			wantTitle:  "Pride and Prejudice",
			wantAuthor: "Jane Austen",
		},
		{
			name:       "title with author in parentheses",
			input:      "The Hobbit (J.R.R. Tolkien).epub",
			wantTitle:  "The Hobbit",
			wantAuthor: "J.R.R. Tolkien",
		},
		{
			name:       "underscores as separators",
			input:      "war_and_peace_by_Leo_Tolstoy.pdf",
			wantTitle:  "war and peace",
			wantAuthor: "Leo Tolstoy",
		},
		{
			name:       "leading article keeps the dash prefix as title",
			input:      "The Left Hand of Darkness - Ursula Le Guin.pdf",
			wantTitle:  "The Left Hand of Darkness",
			wantAuthor: "Ursula Le Guin",
		},
		{
			name:       "multiple authors after by",
			input:      "Good Omens by Terry Pratchett and Neil Gaiman.pdf",
			wantTitle:  "Good Omens",
			wantAuthor: "Terry Pratchett and Neil Gaiman",
		},
		{
			name:       "no recognizable structure",
			input:      "scan0001.pdf",
			wantTitle:  "scan0001",
			wantAuthor: "",
		},
		{
			name:       "plain title only",
			input:      "Neuromancer.epub",
			wantTitle:  "Neuromancer",
			wantAuthor: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			title, author := ParseFilename(tc.input)
			if title != tc.wantTitle {
				t.Errorf("title: got %q, want %q", title, tc.wantTitle)
			}
			if author != tc.wantAuthor {
				t.Errorf("author: got %q, want %q", author, tc.wantAuthor)
			}
		})
	}
}

func TestParseFilenameNeverFails(t *testing.T) {
	// Degenerate names must degrade gracefully, never panic.
	inputs := []string{"", ".pdf", "___.pdf", "---.pdf", "((((.pdf", strings.Repeat("x", 500) + ".pdf"}
	for _, input := range inputs {
		title, author := ParseFilename(input)
		if len(title) > maxTitleLen {
			t.Errorf("ParseFilename(%q): title exceeds %d chars", input, maxTitleLen)
		}
		if len(author) > maxAuthorLen {
			t.Errorf("ParseFilename(%q): author exceeds %d chars", input, maxAuthorLen)
		}
	}
}

func TestParseFilenameBracketsCleaned(t *testing.T) {
	title, author := ParseFilename("Snow Crash [retail] - Neal Stephenson.pdf")
	if author != "Neal Stephenson" {
		t.Errorf("author: got %q, want %q", author, "Neal Stephenson")
	}
	if strings.ContainsAny(title, "[]{}") {
		t.Errorf("title still contains bracket characters: %q", title)
	}
}
