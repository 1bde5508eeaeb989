package mdx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSectionNotFound is returned by Extract when no heading matches.
var ErrSectionNotFound = errors.New("section not found")

// boundaryLevel is the heading level that closes an extracted section.
// Level-1 and level-2 headings end it; deeper headings are nested content.
const boundaryLevel = 2

// extractLevels are the heading levels Extract accepts, in priority order.
var extractLevels = []int{2, 3, 1}

// Extract returns the section opened by the first line that names it:
// a level-2, level-3 or level-1 heading with that title, or a line equal
// to name verbatim. The section runs until the next level-1 or level-2
// heading or the end of the document.
func Extract(doc Document, name string) (Section, error) {
	title := strings.TrimSpace(name)
	if title == "" {
		return Section{}, fmt.Errorf("%w: empty name", ErrSectionNotFound)
	}

	start := -1
	level := 0
	for i, line := range doc.Lines {
		if l, ok := matchSectionLine(line, name, title); ok {
			start, level = i, l
			break
		}
	}
	if start < 0 {
		return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, title)
	}

	sec := Section{Title: title, Level: level, Line: start, Lines: []string{doc.Lines[start]}}
	for i := start + 1; i < len(doc.Lines); i++ {
		line := doc.Lines[i]
		if l, _, ok := parseHeading(line); ok && l <= boundaryLevel {
			break
		}
		sec.Lines = append(sec.Lines, line)
	}
	return sec, nil
}

// matchSectionLine reports whether line opens the section called name and
// the level it was matched at. Headings compare by trimmed title, the raw
// form compares the whole line with name as given. A raw match on a
// non-heading line reports the boundary level.
func matchSectionLine(line, name, title string) (int, bool) {
	if level, t, ok := parseHeading(line); ok && t == title {
		for _, want := range extractLevels {
			if level == want {
				return level, true
			}
		}
	}
	if line == name {
		if level, _, ok := parseHeading(line); ok {
			return level, true
		}
		return boundaryLevel, true
	}
	return 0, false
}

// List returns the titles of all level-2 headings in document order.
// Headings with no title text are skipped.
func List(doc Document) []string {
	var titles []string
	for _, line := range doc.Lines {
		if level, title, ok := parseHeading(line); ok && level == 2 && title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}
