package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"browser-tool/internal/application/port/input"
	"browser-tool/internal/application/port/output"
	"browser-tool/internal/di"

	"github.com/spf13/cobra"
)

const maxLineBytes = 1 << 20

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Read actions from stdin, one JSON object per line",
	Long: `Read tool arguments from stdin, one JSON object per line, and print each result.

The browser stays open between lines. Special lines:
  close   close the browser session (the next action starts a new one)
  exit    quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *di.Container) error {
			return runLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), c.Tool, c.Browser)
		})
	},
}

func runLoop(ctx context.Context, in io.Reader, out io.Writer, tool output.ToolPort, session input.BrowserActionExecutor) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit":
			return nil
		case "close":
			if err := session.Close(ctx); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			} else {
				fmt.Fprintln(out, "Browser session closed")
			}
			continue
		}

		result, err := tool.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, result)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
