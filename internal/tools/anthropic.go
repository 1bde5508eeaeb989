package tools

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicTools converts tools to Anthropic Messages API definitions.
func AnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		s := t.InputSchema()
		schema := anthropic.ToolInputSchemaParam{
			Type:     "object",
			Required: s.Required,
		}
		if s.Properties != nil {
			schema.Properties = s.Properties
		}
		result[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name(),
				Description: anthropic.String(t.Description()),
				InputSchema: schema,
			},
		}
	}
	return result
}
