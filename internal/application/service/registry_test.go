package service

import (
	"context"
	"testing"

	"browser-tool/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name entity.ToolName
}

func (t *echoTool) Name() entity.ToolName { return t.name }
func (t *echoTool) Description() string    { return "echoes " + t.name.String() }
func (t *echoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (t *echoTool) Execute(ctx context.Context, arguments string) (string, error) {
	return arguments, nil
}

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	registry := NewToolRegistry()
	registry.Register(&echoTool{name: entity.ToolBrowser})

	tool, ok := registry.Get(entity.ToolBrowser)
	require.True(t, ok)
	assert.Equal(t, entity.ToolBrowser, tool.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestToolRegistry_DefinitionsAreSorted(t *testing.T) {
	registry := NewToolRegistry()
	registry.Register(&echoTool{name: "zeta"})
	registry.Register(&echoTool{name: "alpha"})
	registry.Register(&echoTool{name: "alpha"})

	defs := registry.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "echoes alpha", defs[0].Description)
	assert.Equal(t, "zeta", defs[1].Name)
}
