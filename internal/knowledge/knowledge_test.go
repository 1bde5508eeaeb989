package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gil-1/crewai-gamedevs/internal/assets"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "a.md")
	writeFile(t, text, "## Title\nbody\n")
	got, err := ReadText(text)
	require.NoError(t, err)
	assert.Equal(t, "## Title\nbody\n", got)

	bin := filepath.Join(dir, "b.bin")
	writeFile(t, bin, "abc\x00def")
	_, err = ReadText(bin)
	assert.ErrorIs(t, err, ErrNotText)

	bad := filepath.Join(dir, "c.md")
	writeFile(t, bad, "\xff\xfe\xfd")
	_, err = ReadText(bad)
	assert.ErrorIs(t, err, ErrNotText)

	_, err = ReadText(filepath.Join(dir, "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCandidates(t *testing.T) {
	rel := "knowledge/x.mdx"
	assert.Equal(t,
		[]string{"custom/x.mdx", rel, filepath.Join("..", rel)},
		Candidates("custom/x.mdx", rel))
	assert.Equal(t,
		[]string{rel, filepath.Join("..", rel)},
		Candidates("./knowledge/x.mdx", rel))
}

func TestStoreTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.mdx")
	writeFile(t, path, "## Only\n")

	s := &Store{TemplatePath: path}
	text, from, err := s.Template()
	require.NoError(t, err)
	assert.Equal(t, "## Only\n", text)
	assert.Equal(t, path, from)
}

func TestStoreEmbeddedFallback(t *testing.T) {
	t.Chdir(t.TempDir())

	s := &Store{TemplatePath: "nope/template.mdx", Embedded: true}
	text, from, err := s.Template()
	require.NoError(t, err)
	want, err := assets.Read(assets.TemplateFile)
	require.NoError(t, err)
	assert.Equal(t, string(want), text)
	assert.Equal(t, "embedded:"+assets.TemplateFile, from)

	s.Embedded = false
	_, _, err = s.Guide()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), assets.GuideFile)
}

func TestStoreParentFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, assets.GuideFile), "## Guide\n")
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	t.Chdir(sub)

	s := &Store{}
	text, from, err := s.Guide()
	require.NoError(t, err)
	assert.Equal(t, "## Guide\n", text)
	assert.Equal(t, filepath.Join("..", assets.GuideFile), from)
}

func TestStoreList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.md"), "12345")
	writeFile(t, filepath.Join(root, "a", "inner.md"), "x")

	s := &Store{Root: root}
	dir, entries, err := s.List("")
	require.NoError(t, err)
	assert.Equal(t, root, dir)
	assert.Equal(t, []Entry{
		{Name: "a", IsDir: true},
		{Name: "b.md", Size: 5},
	}, entries)

	listing := FormatListing(dir, entries)
	assert.Contains(t, listing, "[dir]  a/")
	assert.Contains(t, listing, "[file] b.md (5 bytes)")

	_, entries, err = s.List("a")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	for _, sub := range []string{"..", "../etc", "/etc"} {
		_, _, err = s.List(sub)
		assert.Error(t, err, sub)
	}

	_, _, err = s.List("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithin(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()

	tests := []struct {
		name    string
		path    string
		roots   []string
		wantErr bool
	}{
		{"inside", filepath.Join(root, "a", "b.md"), []string{root}, false},
		{"root itself", root, []string{root}, false},
		{"second root", filepath.Join(other, "x.md"), []string{root, other}, false},
		{"empty roots skipped", filepath.Join(other, "x.md"), []string{"", other}, false},
		{"outside", filepath.Join(other, "x.md"), []string{root}, true},
		{"dot dot escape", filepath.Join(root, "..", "x.md"), []string{root}, true},
		{"sibling with prefix", root + "-evil/x.md", []string{root}, true},
		{"no roots", filepath.Join(root, "x.md"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Within(tt.path, tt.roots...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.path), got)
		})
	}
}

func TestFallback(t *testing.T) {
	data, err := assets.Read(assets.GuideFile)
	require.NoError(t, err)
	guide := string(data)

	tests := []struct {
		name      string
		query     string
		wantStart string
		wantOK    bool
	}{
		{"pitch maps to step 1", "elevator PITCH tips", "Step 1: Define the Core Concept", true},
		{"gameplay maps to step 3", "gameplay loop", "Step 3: Outline Core Gameplay and Mechanics", true},
		{"story maps to step 4", "story beats", "Step 4: Outline Narrative and World", true},
		{"scope maps to step 7", "scope", "Step 7: Outline Scope, Milestones, and Next Steps", true},
		{"unknown keyword", "zebra", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Fallback(tt.query, guide)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Empty(t, got)
				return
			}
			assert.True(t, strings.HasPrefix(got, tt.wantStart), got)
			assert.NotContains(t, got, "\n### Step")
			assert.NotContains(t, got, "\n## ")
		})
	}
}

func TestFallbackByteCap(t *testing.T) {
	guide := "Step 1: Define the Core Concept\n" + strings.Repeat("x", 5000)
	got, ok := Fallback("concept", guide)
	require.True(t, ok)
	assert.Len(t, got, fallbackMaxBytes)
}

func TestFallbackMissingStep(t *testing.T) {
	_, ok := Fallback("pitch", "## Nothing relevant\n")
	assert.False(t, ok)
}
