package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all misrafix MCP resources on the given
// server.
func (ms *misrafixServer) registerResources(s *server.MCPServer) {
	// misrafix://violations - the current analysis batch
	s.AddResource(
		mcplib.NewResource(
			"misrafix://violations",
			"Violations",
			mcplib.WithResourceDescription("Resolved MISRA violations of the current analysis batch"),
			mcplib.WithMIMEType("application/json"),
		),
		ms.handleViolationsResource(),
	)
}

func (ms *misrafixServer) handleViolationsResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		batch, err := ms.currentBatch()
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling batch: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "misrafix://violations",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
