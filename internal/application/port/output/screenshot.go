package output

import (
	"context"

	"browser-tool/internal/domain/entity"
)

type ScreenshotStore interface {
	// Save writes the screenshot and returns its path relative to the workspace root.
	Save(ctx context.Context, shot *entity.Screenshot) (string, error)
	Dir() string
}
