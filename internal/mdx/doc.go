// Package mdx reads the structure of markdown and MDX knowledge documents:
// the GDD template and the game design guide.
//
// # Overview
//
// Everything here is a pure function over in-memory text. Callers read the
// file (see package knowledge) and hand the raw text to Parse; nothing is
// cached between calls, so the functions are safe to call from concurrent
// tool invocations.
//
// # Operations
//
//   - Extract: retrieve one named section (level 1, 2 or 3 heading).
//   - List: enumerate level-2 section titles in document order.
//   - Search: rank heading-delimited sections against a free-text query.
//   - Validate: compare a document's level-2 sections with a template's.
//   - Outline: build a heading tree for display.
//
// Level-2 headings (##) are the section boundary used for listing and
// validation. Search splits at every heading regardless of level.
package mdx
