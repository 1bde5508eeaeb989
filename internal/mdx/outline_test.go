package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	doc := Parse("# GDD\n## Core\n### Pitch\n```sh\n# not a heading\n```\n## Mechanics\n#hashtag")
	roots := Outline(doc)
	require.Len(t, roots, 1)

	root := roots[0]
	assert.Equal(t, "GDD", root.Title)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Core", root.Children[0].Title)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "Pitch", root.Children[0].Children[0].Title)
	assert.Contains(t, root.Children[0].Children[0].Text, "# not a heading")
	assert.Equal(t, 7, root.Children[1].LineNum)

	assert.Equal(t, "GDD\n  Core\n    Pitch\n  Mechanics\n", FormatOutline(roots))

	count := 0
	Walk(roots, func(*Node) { count++ })
	assert.Equal(t, 4, count)
}

func TestOutlineEmpty(t *testing.T) {
	assert.Nil(t, Outline(Parse("")))
	assert.Equal(t, "", FormatOutline(nil))
}
