package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/adapters/mcp"
)

var mcpTransport string

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server drives a headless timer: start, pause, resume and stop it,
cycle the mode and read its status and transition history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		transport := app.config.MCP.Transport
		if mcpTransport != "" {
			transport = mcpTransport
		}

		surface := canvas.New(app.config.Display.Width, app.config.Display.Height)
		ctrl := newController(surface, nil, nil)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = newDispatcher().Run(ctx)
		}()

		ctrl.Boot(ctx, time.Now())
		go func() {
			_ = ctrl.Run(ctx, tickInterval())
		}()

		server := mcp.NewServer(app.control, app.board, app.storage.Transitions(), mcp.Options{
			Transport: transport,
			Addr:      app.config.MCP.Addr,
		}, app.logger)
		defer server.Stop()

		if transport == mcp.TransportHTTP {
			app.logger.Info("starting mcp server", "transport", transport, "addr", app.config.MCP.Addr)
		}
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", "Transport to serve on: stdio or http (default from config)")
	rootCmd.AddCommand(mcpCmd)
}
