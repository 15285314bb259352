package adapter

import (
	"context"

	"browser-tool/internal/application/port/output"

	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*LangChainTool)(nil)

// LangChainTool lets a langchaingo agent call a tool. The agent input is passed
// through as the JSON argument object.
type LangChainTool struct {
	Tool output.ToolPort
}

func NewLangChainTool(tool output.ToolPort) *LangChainTool {
	return &LangChainTool{Tool: tool}
}

func (t *LangChainTool) Name() string {
	return t.Tool.Name().String()
}

func (t *LangChainTool) Description() string {
	return t.Tool.Description() +
		` Input must be a JSON object, e.g. {"action":"goto","url":"https://example.com"}.`
}

func (t *LangChainTool) Call(ctx context.Context, input string) (string, error) {
	return t.Tool.Execute(ctx, input)
}

func LangChainTools(registry output.ToolRegistry) []tools.Tool {
	all := registry.All()
	result := make([]tools.Tool, 0, len(all))
	for _, t := range all {
		result = append(result, NewLangChainTool(t))
	}
	return result
}
