package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openclerk/rolodex/internal/adapters/driving/mcp"
	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/logger"
)

var serveHTTP string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server exposing contact tools to AI assistants.

By default the server speaks over stdio, suitable for assistant
configurations that spawn the process. With --http it serves the
streamable HTTP transport instead.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "serve over HTTP on this address instead of stdio (e.g. :8421)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireOAuthConfig(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Contacts: a.contacts,
		Accounts: a.accounts,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick up config edits (e.g. verbosity, rate limits) while serving.
	// Anything requiring a rebuild of the service graph takes effect on
	// the next start.
	go func() {
		err := a.cfgStore.Watch(ctx, func(settings domain.Settings) {
			logger.SetVerbose(settings.Verbose || flagVerbose)
			logger.Info("config reloaded from %s", a.cfgStore.Path())
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("config watch stopped: %v", err)
		}
	}()

	if serveHTTP != "" {
		logger.Info("serving MCP over HTTP on %s", serveHTTP)
		return server.RunHTTP(ctx, serveHTTP)
	}
	return server.Run(ctx)
}
