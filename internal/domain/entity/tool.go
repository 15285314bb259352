package entity

type ToolName string

const (
	ToolBrowser ToolName = "browser"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}
