package mdx

import (
	"regexp"
	"strings"
)

// Node is one heading in an outline tree.
type Node struct {
	Title    string  `json:"title"`
	Level    int     `json:"level"`
	LineNum  int     `json:"line_num"` // 1-indexed
	Text     string  `json:"text,omitempty"`
	Children []*Node `json:"nodes,omitempty"`
}

var (
	headerPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	fencePattern  = regexp.MustCompile("^(```|~~~)")
)

// outlineHeadings collects headings outside fenced code blocks. Unlike
// Headings it requires whitespace after the '#' run, so "#hashtag" lines
// and shell comments in examples stay out of the tree.
func outlineHeadings(doc Document) []Node {
	var nodes []Node
	inFence := false
	for i, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		if fencePattern.MatchString(trimmed) {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" {
			continue
		}
		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			nodes = append(nodes, Node{
				Title:   strings.TrimSpace(m[2]),
				Level:   len(m[1]),
				LineNum: i + 1,
			})
		}
	}
	return nodes
}

// Outline builds the heading tree of doc. Each node's Text holds the lines
// from its heading up to the next heading.
func Outline(doc Document) []*Node {
	flat := outlineHeadings(doc)
	if len(flat) == 0 {
		return nil
	}

	for i := range flat {
		start := flat[i].LineNum - 1
		end := len(doc.Lines)
		if i+1 < len(flat) {
			end = flat[i+1].LineNum - 1
		}
		flat[i].Text = strings.TrimSpace(strings.Join(doc.Lines[start:end], "\n"))
	}

	type entry struct {
		node  *Node
		level int
	}
	var stack []entry
	var roots []*Node
	for i := range flat {
		n := &flat[i]
		for len(stack) > 0 && stack[len(stack)-1].level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, entry{node: n, level: n.Level})
	}
	return roots
}

// FormatOutline renders the tree as an indented table of contents.
func FormatOutline(nodes []*Node) string {
	var sb strings.Builder
	var write func([]*Node, int)
	write = func(children []*Node, indent int) {
		for _, n := range children {
			sb.WriteString(strings.Repeat("  ", indent))
			sb.WriteString(n.Title)
			sb.WriteString("\n")
			write(n.Children, indent+1)
		}
	}
	write(nodes, 0)
	return sb.String()
}

// Walk visits every node depth-first.
func Walk(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
		Walk(n.Children, fn)
	}
}
