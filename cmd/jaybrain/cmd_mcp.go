package main

import (
	"os"

	"github.com/spf13/cobra"

	"jaybrain/internal/mcp"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Serve the tool registry over the MCP stdio transport",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.st.Close()

		reg, err := a.buildRegistry()
		if err != nil {
			return err
		}

		server := mcp.NewServer(reg, a.cfg.Name, a.cfg.Version)
		return server.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}
