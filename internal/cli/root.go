package cli

import (
	"context"
	"fmt"

	"browser-tool/internal/di"
	"browser-tool/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var (
	flagEngine    string
	flagWorkspace string
	flagHeadful   bool
)

var rootCmd = &cobra.Command{
	Use:   "browser",
	Short: "Headless browser tool for agents",
	Long: `browser drives a headless browser through named actions
(goto, click, type, press, screenshot, content, url, back, forward, reload, scroll).

Examples:
  browser exec '{"action":"goto","url":"https://example.com"}'
  browser run < actions.jsonl
  browser serve --addr :8080
  browser schema --format openai`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "Browser engine: rod, playwright or memory (default from BROWSER_ENGINE)")
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "Workspace directory for screenshots (default from WORKSPACE_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagHeadful, "headful", false, "Show the browser window")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() di.Config {
	cfg := di.ConfigFromEnv(env.NewEnvService())
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}
	if flagWorkspace != "" {
		cfg.WorkspaceDir = flagWorkspace
	}
	if flagHeadful {
		cfg.BrowserHeadless = false
	}
	return cfg
}

// withContainer builds the container, runs fn and always releases the browser.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *di.Container) error) (err error) {
	c, err := di.NewContainer(loadConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if closeErr := c.Close(context.Background()); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close browser: %w", closeErr)
		}
	}()

	return fn(ctx, c)
}
