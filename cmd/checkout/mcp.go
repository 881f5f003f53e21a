package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/checkout"
	"github.com/aretw0/checkout/pkg/adapters/mcp"
	"github.com/aretw0/checkout/pkg/observability"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the checkout flow as MCP tools (start_checkout, set_field, advance, ...).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		engine, err := a.newEngine(observability.LogHooks(a.logger))
		if err != nil {
			return err
		}
		srv := mcp.NewServer(a.newManager(engine), engine, checkout.Version, mcp.WithLogger(a.logger))

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			// Keep stdout for JSON-RPC only.
			log.SetOutput(os.Stderr)
			a.logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			addr, _ := cmd.Flags().GetString("addr")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, addr); err != nil {
				return err
			}
			a.logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
