package crew

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// MessageParams renders an agent as an Anthropic Messages request without
// any messages: model, sampling parameters, persona as the system prompt
// and the agent's tools. tools is filtered to the agent's tool list.
func (a Agent) MessageParams(tools []anthropic.ToolUnionParam) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.LLM.Model),
		MaxTokens:   int64(a.LLM.MaxTokens),
		Temperature: anthropic.Float(a.LLM.Temperature),
		TopP:        anthropic.Float(a.LLM.TopP),
		System: []anthropic.TextBlockParam{{
			Text: fmt.Sprintf("You are %s.\n\nGoal: %s\n\n%s",
				strings.TrimSpace(a.Role), strings.TrimSpace(a.Goal), strings.TrimSpace(a.Backstory)),
		}},
	}

	allowed := make(map[string]bool, len(a.Tools))
	for _, name := range a.Tools {
		allowed[name] = true
	}
	for _, t := range tools {
		if t.OfTool != nil && allowed[t.OfTool.Name] {
			params.Tools = append(params.Tools, t)
		}
	}
	return params
}
