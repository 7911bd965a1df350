package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misrafix/misrafix/internal/adapters/outbound/cache"
	"github.com/misrafix/misrafix/internal/adapters/outbound/catalog"
	"github.com/misrafix/misrafix/internal/adapters/outbound/gitinfo"
	"github.com/misrafix/misrafix/internal/adapters/outbound/sarif"
	"github.com/misrafix/misrafix/internal/application"
	"github.com/misrafix/misrafix/internal/domain"
)

// newAnalyzeService wires the standard adapters behind an AnalyzeService.
// The catalog path is optional; empty selects the embedded catalog.
func newAnalyzeService(catalogPath string, session *domain.Session) (*application.AnalyzeService, error) {
	rules, err := loadRules(catalogPath)
	if err != nil {
		return nil, err
	}
	return application.NewAnalyzeService(
		sarif.New(),
		domain.NewMatcher(rules),
		cache.New(),
		session,
	), nil
}

func loadRules(catalogPath string) (map[string]domain.RuleDefinition, error) {
	if catalogPath == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(catalogPath)
}

// workspaceRoot resolves the workspace root for relative artifact paths.
func workspaceRoot(startPath string) (string, error) {
	root, err := gitinfo.New().Root(startPath)
	if err != nil {
		return "", fmt.Errorf("locating workspace root: %w", err)
	}
	return root, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
