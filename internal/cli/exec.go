package cli

import (
	"context"
	"fmt"

	"browser-tool/internal/di"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <json>",
	Short: "Run a single action and close the browser",
	Long: `Run a single action and close the browser.

Examples:
  browser exec '{"action":"goto","url":"https://example.com"}'
  browser exec '{"action":"screenshot","full_page":true}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
			result, err := c.Tool.Execute(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		})
	},
}
