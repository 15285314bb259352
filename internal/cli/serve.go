package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"browser-tool/internal/adapter/httpapi"
	"browser-tool/internal/di"

	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser tool over HTTP",
	Long: `Serve the browser tool over HTTP.

Routes:
  POST   /v1/browser/actions   run an action, body is the JSON argument object
  GET    /v1/browser/schema    tool definition
  DELETE /v1/browser/session   close the browser session
  GET    /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return withContainer(ctx, func(ctx context.Context, c *di.Container) error {
			addr := flagAddr
			if addr == "" {
				addr = c.Config.HTTPAddr
			}
			server := httpapi.NewServer(c.Tool, c.Browser, c.Logger, httpapi.DefaultConfig())
			return server.ListenAndServe(ctx, addr)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from HTTP_ADDR)")
}
