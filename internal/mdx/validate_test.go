package mdx

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingSection(t *testing.T) {
	tmpl := Parse("## Core Concept\n## Game Mechanics")
	doc := Parse("## Core Concept\ncontent")

	report := Validate(doc, tmpl)
	assert.False(t, report.Passed)
	assert.Equal(t, []string{"Game Mechanics"}, report.Missing)
	assert.Empty(t, report.Extra)
	assert.Equal(t, 2, report.RequiredCount())
	assert.Equal(t, 1, report.FoundCount())
	assert.Equal(t, 1, report.MissingCount())
}

func TestValidateReflexive(t *testing.T) {
	for _, text := range []string{"", "plain", templateDoc, "## A\n## B\n## !!!"} {
		doc := Parse(text)
		report := Validate(doc, doc)
		assert.Empty(t, report.Missing, text)
		assert.Empty(t, report.Extra, text)
		assert.True(t, report.Passed, text)
	}
}

func TestValidateMatching(t *testing.T) {
	tests := []struct {
		name        string
		tmpl        string
		doc         string
		wantMissing []string
		wantExtra   []string
	}{
		{
			name: "punctuation and case ignored",
			tmpl: "## Visual & Audio Direction",
			doc:  "## visual  audio direction",
		},
		{
			name: "numbered prefix satisfies by containment",
			tmpl: "## Core Concept",
			doc:  "## 1. Core Concept",
		},
		{
			name: "lenient containment",
			tmpl: "## Core Concept",
			doc:  "## Core Concept Refinement Notes",
		},
		{
			name:      "extra section reported",
			tmpl:      "## Core Concept",
			doc:       "## Core Concept\n## Monetization",
			wantExtra: []string{"Monetization"},
		},
		{
			name:        "emoji-only title only matches itself",
			tmpl:        "## Narrative",
			doc:         "## 🎮",
			wantMissing: []string{"Narrative"},
			wantExtra:   []string{"🎮"},
		},
		{
			name:        "level three does not count",
			tmpl:        "## Scope",
			doc:         "### Scope",
			wantMissing: []string{"Scope"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(Parse(tt.doc), Parse(tt.tmpl))
			if tt.wantMissing == nil {
				tt.wantMissing = []string{}
			}
			if tt.wantExtra == nil {
				tt.wantExtra = []string{}
			}
			assert.Equal(t, tt.wantMissing, report.Missing)
			assert.Equal(t, tt.wantExtra, report.Extra)
			assert.Equal(t, len(tt.wantMissing) == 0 && len(tt.wantExtra) == 0, report.Passed)
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "step 1 define", normalizeTitle("  Step 1: Define! "))
	assert.Equal(t, "caf", normalizeTitle("Café"))
	assert.Equal(t, "", normalizeTitle("🎮"))
}

func TestValidateJSONListsNeverNull(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		tmpl string
	}{
		{"passing", "## Core Concept", "## Core Concept"},
		{"empty documents", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Validate(Parse(tt.doc), Parse(tt.tmpl)))
			require.NoError(t, err)
			assert.NotContains(t, string(data), "null")
			assert.Contains(t, string(data), `"missing":[]`)
			assert.Contains(t, string(data), `"extra":[]`)
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	doc := Parse(templateDoc)
	tmpl := Parse("## Core Concept\n## Game Mechanics\n## Art Direction")

	type result struct {
		section Section
		search  []SearchResult
		report  Report
		err     error
	}
	compute := func() (r result) {
		if r.section, r.err = Extract(doc, "Game Mechanics"); r.err != nil {
			return r
		}
		if r.search, r.err = Search(doc, "pitch rules"); r.err != nil {
			return r
		}
		r.report = Validate(doc, tmpl)
		return r
	}
	want := compute()
	require.NoError(t, want.err)

	const workers = 16
	got := make([]result, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = compute()
		}()
	}
	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i], "worker %d", i)
	}
	assert.Equal(t, Parse(templateDoc), doc)
}
