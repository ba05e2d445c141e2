package main

import (
	"github.com/Abraxas-365/hrportal/internal/mcpserver"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpOffline bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the scoring tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// stdout carries the protocol.
		logx.ToStderr()
		if err := logx.Configure(false, logx.LevelWarn); err != nil {
			return err
		}
		if mcpOffline {
			return server.ServeStdio(mcpserver.New(nil, version))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		container, err := NewContainer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		return server.ServeStdio(mcpserver.New(container.ApplicationService, version))
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpOffline, "offline", false, "serve compute_match only, without a database")
	rootCmd.AddCommand(mcpCmd)
}
