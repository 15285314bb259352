package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"browser-tool/internal/application/port/input"
	"browser-tool/internal/application/port/output"
	"browser-tool/internal/domain/entity"

	"github.com/ysmood/gson"
)

var _ output.ToolPort = (*BrowserTool)(nil)

var ErrNoBrowser = errors.New("no browser attached to this tool")

type BrowserTool struct {
	executor input.BrowserActionExecutor
	logger   output.LoggerPort
}

// NewBrowserTool wraps executor. A nil executor gives a tool that can only be
// described; Execute then reports that no browser is attached.
func NewBrowserTool(executor input.BrowserActionExecutor, logger output.LoggerPort) *BrowserTool {
	return &BrowserTool{executor: executor, logger: logger}
}

func (t *BrowserTool) Name() entity.ToolName { return entity.ToolBrowser }

func (t *BrowserTool) Description() string {
	return "Control a web browser. Useful for interacting with complex websites, taking screenshots, or automating web tasks. " +
		"Actions: goto (open url), click (CSS selector), type (fill selector with text), press (keyboard key such as 'Enter'), " +
		"screenshot (saved under screenshots/, optionally full_page), content (page HTML, first 10000 characters; clean=true strips scripts and styles), " +
		"url (current address), back, forward, reload, scroll (direction up/down by amount pixels)."
}

func (t *BrowserTool) Parameters() map[string]interface{} {
	actions := make([]string, 0, len(entity.Actions))
	for _, a := range entity.Actions {
		actions = append(actions, a.String())
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        actions,
				"description": "The action to perform",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL for 'goto' action",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for 'click' or 'type' actions",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type for 'type' action",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Key to press for 'press' action (e.g., 'Enter')",
			},
			"full_page": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to take a full page screenshot",
				"default":     false,
			},
			"clean": map[string]interface{}{
				"type":        "boolean",
				"description": "Strip scripts, styles, comments and noisy attributes from 'content' output",
				"default":     false,
			},
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{entity.ScrollUp, entity.ScrollDown},
				"description": "Scroll direction",
				"default":     entity.DefaultScrollDirection,
			},
			"amount": map[string]interface{}{
				"type":        "integer",
				"description": "Amount to scroll in pixels",
				"default":     entity.DefaultScrollAmount,
			},
		},
		"required": []string{"action"},
	}
}

// Execute never returns an error; failures are reported in the result text.
func (t *BrowserTool) Execute(ctx context.Context, arguments string) (string, error) {
	action, params, err := ParseArguments(arguments)
	if err != nil {
		t.logger.Warn("Failed to parse arguments", "tool", t.Name(), "error", err)
		return "Error: invalid arguments: " + err.Error(), nil
	}

	if t.executor == nil {
		return "Error: " + ErrNoBrowser.Error(), nil
	}

	t.logger.Debug("Browser tool called", "tool", t.Name(), "action", action)
	return t.executor.Execute(ctx, action, params), nil
}

func (t *BrowserTool) Close(ctx context.Context) error {
	if t.executor == nil {
		return nil
	}
	return t.executor.Close(ctx)
}

// ParseArguments reads a JSON object of tool arguments. Values are coerced
// loosely: numbers may arrive as strings or floats, booleans as "true"/"false".
func ParseArguments(arguments string) (string, entity.Params, error) {
	var params entity.Params

	raw := map[string]interface{}{}
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
			return "", params, err
		}
	}
	args := gson.New(raw)

	action, err := stringArg(args, "action")
	if err != nil {
		return "", params, err
	}
	if action == nil {
		return "", params, fmt.Errorf("'action' is required")
	}

	fields := []struct {
		name string
		dst  **string
	}{
		{"url", &params.URL},
		{"selector", &params.Selector},
		{"text", &params.Text},
		{"key", &params.Key},
		{"direction", &params.Direction},
	}
	for _, f := range fields {
		if *f.dst, err = stringArg(args, f.name); err != nil {
			return "", params, err
		}
	}

	if params.FullPage, err = boolArg(args, "full_page"); err != nil {
		return "", params, err
	}
	if params.Clean, err = boolArg(args, "clean"); err != nil {
		return "", params, err
	}
	if params.Amount, err = intArg(args, "amount"); err != nil {
		return "", params, err
	}

	return *action, params, nil
}

func present(args gson.JSON, name string) bool {
	return args.Has(name) && !args.Get(name).Nil()
}

func stringArg(args gson.JSON, name string) (*string, error) {
	if !present(args, name) {
		return nil, nil
	}
	switch v := args.Get(name).Val().(type) {
	case string:
		return &v, nil
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s, nil
	case bool:
		s := strconv.FormatBool(v)
		return &s, nil
	default:
		return nil, fmt.Errorf("'%s' must be a string", name)
	}
}

func boolArg(args gson.JSON, name string) (*bool, error) {
	if !present(args, name) {
		return nil, nil
	}
	switch v := args.Get(name).Val().(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("'%s' must be a boolean", name)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("'%s' must be a boolean", name)
	}
}

func intArg(args gson.JSON, name string) (*int, error) {
	if !present(args, name) {
		return nil, nil
	}
	switch v := args.Get(name).Val().(type) {
	case float64:
		if v != math.Trunc(v) || v < float64(math.MinInt) || v >= float64(math.MaxInt) {
			return nil, fmt.Errorf("'%s' must be an integer", name)
		}
		return gson.Int(int(v)), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("'%s' must be an integer", name)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("'%s' must be an integer", name)
	}
}
