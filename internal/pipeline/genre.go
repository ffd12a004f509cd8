// This file implements keyword-based genre classification. The keyword and
// author tables are injected at construction so they can be tested and
// extended independently of the defaults shipped below.

package pipeline

import "strings"

// DefaultGenre is returned when no keyword scores above zero.
const DefaultGenre = "Fiction"

// GenreKeywords maps one genre to the keywords that vote for it. Tables are
// ordered slices, not maps: ties between equal keyword counts are broken by
// declaration order, which keeps classification deterministic.
type GenreKeywords struct {
	Name     string
	Keywords []string
}

// AuthorGenre maps a known author (matched as a lower-cased substring) to a
// genre. A hit short-circuits keyword scoring entirely.
type AuthorGenre struct {
	Author string
	Genre  string
}

// Classifier scores text against its tables and picks a genre.
type Classifier struct {
	genres  []GenreKeywords
	authors []AuthorGenre
}

// NewClassifier builds a Classifier from the given tables. Passing nil for
// either table uses the package defaults.
func NewClassifier(genres []GenreKeywords, authors []AuthorGenre) *Classifier {
	if genres == nil {
		genres = DefaultGenreTable()
	}
	if authors == nil {
		authors = DefaultAuthorTable()
	}
	return &Classifier{genres: genres, authors: authors}
}

// Classify returns the best-matching genre for the combined input text.
// The author-override table has the highest priority; otherwise the genre
// with the strictly highest keyword count wins, first-declared on ties, and
// DefaultGenre when nothing matches.
func (c *Classifier) Classify(title, author, subject, bodySample string) string {
	combined := strings.ToLower(title + " " + author + " " + subject + " " + bodySample)

	for _, a := range c.authors {
		if strings.Contains(combined, a.Author) {
			return a.Genre
		}
	}

	best := ""
	bestScore := 0
	for _, g := range c.genres {
		score := 0
		for _, kw := range g.Keywords {
			if strings.Contains(combined, kw) {
				score++
			}
		}
		if score > bestScore {
			best = g.Name
			bestScore = score
		}
	}

	if bestScore == 0 {
		return DefaultGenre
	}
	return best
}

// DefaultGenreTable returns the built-in genre keyword table.
func DefaultGenreTable() []GenreKeywords {
	return []GenreKeywords{
		{Name: "Science Fiction", Keywords: []string{
			"science fiction", "sci-fi", "space", "galaxy", "planet", "robot",
			"android", "alien", "starship", "dystopia", "cyberpunk", "time travel",
			"dune", "terraform", "interstellar",
		}},
		{Name: "Fantasy", Keywords: []string{
			"fantasy", "dragon", "wizard", "magic", "sword", "kingdom", "elf",
			"quest", "sorcery", "realm", "throne", "prophecy",
		}},
		{Name: "Mystery", Keywords: []string{
			"mystery", "detective", "murder", "crime", "investigation", "clue",
			"suspect", "homicide", "noir", "whodunit",
		}},
		{Name: "Thriller", Keywords: []string{
			"thriller", "conspiracy", "espionage", "assassin", "agent", "hostage",
			"terrorist", "chase", "suspense",
		}},
		{Name: "Romance", Keywords: []string{
			"romance", "love story", "passion", "wedding", "heartbreak", "lover",
			"courtship",
		}},
		{Name: "Horror", Keywords: []string{
			"horror", "ghost", "haunted", "vampire", "demon", "nightmare",
			"occult", "zombie",
		}},
		{Name: "History", Keywords: []string{
			"history", "historical", "war", "empire", "revolution", "ancient",
			"medieval", "dynasty", "biography of",
		}},
		{Name: "Biography", Keywords: []string{
			"biography", "memoir", "autobiography", "life of", "my life",
			"diaries", "letters of",
		}},
		{Name: "Science", Keywords: []string{
			"physics", "chemistry", "biology", "mathematics", "quantum",
			"evolution", "genome", "neuroscience", "astronomy", "cosmos",
		}},
		{Name: "Technology", Keywords: []string{
			"programming", "software", "computer", "algorithm", "network",
			"database", "machine learning", "artificial intelligence", "internet",
		}},
		{Name: "Business", Keywords: []string{
			"business", "management", "marketing", "startup", "economics",
			"finance", "investing", "leadership", "entrepreneur",
		}},
		{Name: "Self-Help", Keywords: []string{
			"self-help", "habits", "mindfulness", "motivation", "productivity",
			"happiness", "success", "meditation",
		}},
	}
}

// DefaultAuthorTable returns the built-in author-to-genre override table.
// Author names must be lower case; matching is by substring.
func DefaultAuthorTable() []AuthorGenre {
	return []AuthorGenre{
		{Author: "frank herbert", Genre: "Science Fiction"},
		{Author: "isaac asimov", Genre: "Science Fiction"},
		{Author: "philip k. dick", Genre: "Science Fiction"},
		{Author: "arthur c. clarke", Genre: "Science Fiction"},
		{Author: "ursula k. le guin", Genre: "Science Fiction"},
		{Author: "j.r.r. tolkien", Genre: "Fantasy"},
		{Author: "brandon sanderson", Genre: "Fantasy"},
		{Author: "terry pratchett", Genre: "Fantasy"},
		{Author: "george r.r. martin", Genre: "Fantasy"},
		{Author: "agatha christie", Genre: "Mystery"},
		{Author: "arthur conan doyle", Genre: "Mystery"},
		{Author: "raymond chandler", Genre: "Mystery"},
		{Author: "stephen king", Genre: "Horror"},
		{Author: "h.p. lovecraft", Genre: "Horror"},
		{Author: "john le carré", Genre: "Thriller"},
		{Author: "tom clancy", Genre: "Thriller"},
		{Author: "jane austen", Genre: "Romance"},
		{Author: "nora roberts", Genre: "Romance"},
		{Author: "stephen hawking", Genre: "Science"},
		{Author: "carl sagan", Genre: "Science"},
		{Author: "richard feynman", Genre: "Science"},
		{Author: "walter isaacson", Genre: "Biography"},
		{Author: "ron chernow", Genre: "Biography"},
		{Author: "donald knuth", Genre: "Technology"},
		{Author: "martin fowler", Genre: "Technology"},
		{Author: "peter drucker", Genre: "Business"},
		{Author: "dale carnegie", Genre: "Self-Help"},
	}
}
