// Package browsertool embeds the browser tool in a host agent. It hands the
// tool out as langchaingo and go-openai tools; the browser starts on the first
// action and stays open until Close.
package browsertool

import (
	"context"
	"fmt"

	"browser-tool/internal/di"
	"browser-tool/internal/domain/adapter"
	"browser-tool/internal/domain/entity"
	"browser-tool/internal/infrastructure/env"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/tools"
)

type Config = di.Config

const (
	EngineRod        = di.EngineRod
	EnginePlaywright = di.EnginePlaywright
	EngineMemory     = di.EngineMemory
)

func DefaultConfig() Config {
	return di.DefaultConfig()
}

type Toolkit struct {
	container *di.Container
}

func New(cfg Config) (*Toolkit, error) {
	c, err := di.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("browsertool: %w", err)
	}
	return &Toolkit{container: c}, nil
}

// FromEnv reads the configuration from .env files and the environment.
func FromEnv() (*Toolkit, error) {
	return New(di.ConfigFromEnv(env.NewEnvService()))
}

// LangChainTools returns the tools for a langchaingo agent executor.
func (t *Toolkit) LangChainTools() []tools.Tool {
	return adapter.LangChainTools(t.container.Tools)
}

// OpenAITools returns the function definitions to send with a chat request.
func (t *Toolkit) OpenAITools() []openai.Tool {
	return adapter.OpenAITools(t.container.Tools)
}

// Call runs the tool named by an OpenAI tool call.
func (t *Toolkit) Call(ctx context.Context, call openai.ToolCall) (string, error) {
	tool, ok := t.container.Tools.Get(entity.ToolName(call.Function.Name))
	if !ok {
		return fmt.Sprintf("Error: Unknown tool '%s'", call.Function.Name), nil
	}
	return tool.Execute(ctx, call.Function.Arguments)
}

// Close shuts the browser down and flushes the log.
func (t *Toolkit) Close(ctx context.Context) error {
	return t.container.Close(ctx)
}
