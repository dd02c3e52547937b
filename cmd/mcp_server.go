package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kfreiman/docshield/internal/mcp"
)

// mcpServerCmd represents the mcp-server command.
var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Start the MCP server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger, err := newLogger()
		if err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}

		cfg, err := mcp.LoadConfig()
		if err != nil {
			logger.ErrorContext(ctx, "failed to load MCP config",
				"error", err,
			)
			os.Exit(1)
		}

		logger.InfoContext(ctx, "mcp server starting",
			"port", cfg.Port,
			"default_language", cfg.DefaultLanguage,
			"model_endpoint", cfg.Model.Endpoint,
			"endpoints", []string{"/mcp", "/health/live", "/health/ready"},
		)

		srv, err := mcp.NewServer(cfg, logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create MCP server",
				"error", err,
			)
			os.Exit(1)
		}

		if err := srv.ListenAndServe(); err != nil {
			logger.ErrorContext(ctx, "failed to start MCP server",
				"error", err,
			)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}
