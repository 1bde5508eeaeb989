package crew

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
)

func TestBuildBrief(t *testing.T) {
	agent := Agent{Key: "chief_editor", Role: "Chief Editor\n", Goal: "Merge.", Backstory: "Veteran.", Tools: []string{"a", "b"}}
	task := Task{Key: "gdd", Description: "Write the GDD.", ExpectedOutput: "A GDD."}

	brief := buildBrief(briefInput{
		Agent:            agent,
		Task:             task,
		Context:          []TaskOutput{{Task: "pitch", Agent: "pitch_writer", Output: "The pitch."}},
		Feedback:         []string{"one", "two", "three", "four", "five", "six"},
		ToolDescriptions: map[string]string{"a": "Tool A."},
		CountTokens:      mdx.CountTokens,
	})

	assert.True(t, strings.HasPrefix(brief, "# Role\nChief Editor\n\n## Goal\nMerge."))
	assert.Contains(t, brief, "# Task\nWrite the GDD.")
	assert.Contains(t, brief, "## Expected Output\nA GDD.")
	assert.Contains(t, brief, "<context task=\"pitch\" agent=\"pitch_writer\">\nThe pitch.\n</context>")
	assert.NotContains(t, brief, "- one\n")
	assert.Contains(t, brief, "- two\n")
	assert.Contains(t, brief, "- six\n")
	assert.Contains(t, brief, "- a: Tool A.\n- b\n")
}

func TestBuildBriefTrimsContext(t *testing.T) {
	long := strings.Repeat("word ", 50) + "\n\n" + strings.Repeat("tail ", 500)
	brief := buildBrief(briefInput{
		Agent:         Agent{Role: "r", Goal: "g", Backstory: "b"},
		Task:          Task{Description: "d", ExpectedOutput: "e"},
		Context:       []TaskOutput{{Task: "x", Output: long}},
		ContextTokens: 100,
		CountTokens:   mdx.CountTokens,
	})
	assert.Contains(t, brief, "[truncated]")
	assert.NotContains(t, brief, "tail")

	brief = buildBrief(briefInput{
		Agent:       Agent{Role: "r", Goal: "g", Backstory: "b"},
		Task:        Task{Description: "d", ExpectedOutput: "e"},
		Context:     []TaskOutput{{Task: "x", Output: long}},
		CountTokens: mdx.CountTokens,
	})
	assert.NotContains(t, brief, "[truncated]")
	assert.NotContains(t, brief, "# Tools")
	assert.NotContains(t, brief, "# Feedback")
}
