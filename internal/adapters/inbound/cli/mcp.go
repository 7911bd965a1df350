package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/misrafix/misrafix/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the misrafix MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var (
		rootPath    string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start misrafix MCP server (stdio)",
		Long:  "Start the misrafix MCP server using stdio transport. This lets AI coding assistants analyze SARIF logs, inspect MISRA violations, and drive the suggest/apply fix pipeline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := workspaceRoot(rootPath)
			if err != nil {
				return err
			}
			s, err := mcpadapter.NewMisrafixMCPServer(root, catalogPath)
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&rootPath, "path", ".", "Workspace root (defaults to current working directory)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Rule catalog file (defaults to the embedded catalog)")

	return cmd
}
