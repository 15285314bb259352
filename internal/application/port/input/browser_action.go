package input

import (
	"context"

	"browser-tool/internal/domain/entity"
)

// BrowserActionExecutor runs one browser action and reports the outcome as text.
// Execute never fails: errors come back as strings starting with "Error: ".
type BrowserActionExecutor interface {
	Execute(ctx context.Context, action string, params entity.Params) string
	Close(ctx context.Context) error
	Active() bool
}
