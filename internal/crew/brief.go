package crew

import (
	"fmt"
	"strings"

	"github.com/Gil-1/crewai-gamedevs/internal/mdx"
)

// maxFeedback bounds the training notes included per agent.
const maxFeedback = 5

// briefInput collects everything a brief is built from.
type briefInput struct {
	Agent            Agent
	Task             Task
	Context          []TaskOutput
	Feedback         []string
	ToolDescriptions map[string]string
	ContextTokens    int
	CountTokens      func(string) int
}

// buildBrief renders the text piped to the agent CLI.
func buildBrief(in briefInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Role\n%s\n\n", strings.TrimSpace(in.Agent.Role))
	fmt.Fprintf(&sb, "## Goal\n%s\n\n", strings.TrimSpace(in.Agent.Goal))
	fmt.Fprintf(&sb, "## Backstory\n%s\n\n", strings.TrimSpace(in.Agent.Backstory))

	fmt.Fprintf(&sb, "# Task\n%s\n\n", strings.TrimSpace(in.Task.Description))
	fmt.Fprintf(&sb, "## Expected Output\n%s\n\n", strings.TrimSpace(in.Task.ExpectedOutput))

	if len(in.Context) > 0 {
		sb.WriteString("# Context From Previous Tasks\n")
		budget := 0
		if in.ContextTokens > 0 {
			budget = in.ContextTokens / len(in.Context)
		}
		for _, c := range in.Context {
			text := c.Output
			if budget > 0 {
				if cut, truncated := mdx.Truncate(text, budget, in.CountTokens); truncated {
					text = cut + "\n\n[truncated]"
				}
			}
			fmt.Fprintf(&sb, "\n<context task=%q agent=%q>\n%s\n</context>\n", c.Task, c.Agent, text)
		}
		sb.WriteString("\n")
	}

	if len(in.Feedback) > 0 {
		sb.WriteString("# Feedback From Earlier Reviews\n")
		fb := in.Feedback
		if len(fb) > maxFeedback {
			fb = fb[len(fb)-maxFeedback:]
		}
		for _, f := range fb {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
		sb.WriteString("\n")
	}

	if len(in.Agent.Tools) > 0 {
		sb.WriteString("# Tools\n")
		for _, name := range in.Agent.Tools {
			if desc := in.ToolDescriptions[name]; desc != "" {
				fmt.Fprintf(&sb, "- %s: %s\n", name, desc)
			} else {
				fmt.Fprintf(&sb, "- %s\n", name)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Reply with the complete deliverable in Markdown and nothing else.\n")
	return sb.String()
}
