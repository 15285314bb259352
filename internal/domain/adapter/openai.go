package adapter

import (
	"browser-tool/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter exposes a tool as an openai.Tool function definition.
type OpenAIAdapter struct {
	Tool output.ToolPort
}

func NewOpenAIAdapter(tool output.ToolPort) *OpenAIAdapter {
	return &OpenAIAdapter{
		Tool: tool,
	}
}

func (a *OpenAIAdapter) ToOpenAITool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        a.Tool.Name().String(),
			Description: a.Tool.Description(),
			Parameters:  a.Tool.Parameters(),
		},
	}
}

// OpenAITools converts every tool of the registry.
func OpenAITools(registry output.ToolRegistry) []openai.Tool {
	all := registry.All()
	result := make([]openai.Tool, 0, len(all))
	for _, t := range all {
		result = append(result, NewOpenAIAdapter(t).ToOpenAITool())
	}
	return result
}
