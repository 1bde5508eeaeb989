package mdx

import (
	"strings"
)

// Document is the line-oriented view of a markdown file.
type Document struct {
	Lines []string
}

// Parse splits raw text into a Document. Windows line endings are
// normalized so that heading titles never carry a trailing \r.
func Parse(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Document{Lines: strings.Split(text, "\n")}
}

// Text joins the document lines back together.
func (d Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Heading is a line that starts with one or more '#' characters.
type Heading struct {
	Level int
	Title string
	Line  int // 0-indexed line number
}

// parseHeading reports whether line is a heading and returns its level and
// trimmed title. The level is the count of leading '#' characters.
func parseHeading(line string) (level int, title string, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	level = len(line) - len(strings.TrimLeft(line, "#"))
	return level, strings.TrimSpace(line[level:]), true
}

// Headings returns every heading line in document order.
func (d Document) Headings() []Heading {
	var out []Heading
	for i, line := range d.Lines {
		if level, title, ok := parseHeading(line); ok {
			out = append(out, Heading{Level: level, Title: title, Line: i})
		}
	}
	return out
}

// Section is a heading plus the lines that belong to it.
type Section struct {
	Title string
	Level int
	Line  int      // line of the heading, 0-indexed
	Lines []string // heading line first, then body lines
}

// Text returns the section including its heading line.
func (s Section) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Body returns the section without its heading line.
func (s Section) Body() string {
	if len(s.Lines) <= 1 {
		return ""
	}
	return strings.Join(s.Lines[1:], "\n")
}
