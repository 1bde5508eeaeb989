package mdx

import (
	"errors"
	"sort"
	"strings"
)

// MaxResults caps the number of sections Search returns.
const MaxResults = 3

// Scoring weights. An exact occurrence of a term also counts toward the
// word match, so it contributes to both.
const (
	occurrenceWeight = 2.0
	wordWeight       = 0.5
)

// ErrNoMatch is returned by Search when no section scores above zero.
var ErrNoMatch = errors.New("no matching sections")

// SearchResult is a scored section.
type SearchResult struct {
	Score   float64
	Section Section
}

// Search splits doc at every heading, scores each chunk against query and
// returns the best MaxResults chunks, highest score first. Equal scores
// keep document order. An empty query yields no terms and so ErrNoMatch.
func Search(doc Document, query string) ([]SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, ErrNoMatch
	}

	var results []SearchResult
	for _, sec := range chunks(doc) {
		if score := scoreText(sec.Text(), terms); score > 0 {
			results = append(results, SearchResult{Score: score, Section: sec})
		}
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results, nil
}

// chunks partitions doc at every heading line. Lines before the first
// heading form a chunk with no heading of their own.
func chunks(doc Document) []Section {
	var out []Section
	var cur *Section
	for i, line := range doc.Lines {
		if level, title, ok := parseHeading(line); ok {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Section{Title: title, Level: level, Line: i, Lines: []string{line}}
			continue
		}
		if cur == nil {
			cur = &Section{Line: i}
		}
		cur.Lines = append(cur.Lines, line)
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// scoreText computes the relevance of text for the lower-cased terms.
func scoreText(text string, terms []string) float64 {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	var score float64
	for _, term := range terms {
		score += occurrenceWeight * float64(strings.Count(lower, term))

		matches := 0
		for _, w := range words {
			if strings.Contains(w, term) {
				matches++
			}
		}
		score += wordWeight * float64(matches)
	}
	return score
}

// FormatResults joins result texts with a horizontal-rule separator, the
// layout agents receive from the guide search tool.
func FormatResults(results []SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Section.Text()
	}
	return strings.Join(parts, "\n\n---\n\n")
}
