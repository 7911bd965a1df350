package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/misrafix/misrafix/internal/adapters/outbound/cache"
	"github.com/misrafix/misrafix/internal/adapters/outbound/catalog"
	"github.com/misrafix/misrafix/internal/adapters/outbound/gitinfo"
	"github.com/misrafix/misrafix/internal/adapters/outbound/history"
	"github.com/misrafix/misrafix/internal/adapters/outbound/sarif"
	"github.com/misrafix/misrafix/internal/adapters/outbound/source"
	"github.com/misrafix/misrafix/internal/application"
	"github.com/misrafix/misrafix/internal/domain"
)

// misrafixServer wires the violation session and services behind the MCP
// tools. The server process is long-lived, so the session's whole-batch
// snapshot semantics carry the state between tool calls.
type misrafixServer struct {
	workspaceRoot string
	session       *domain.Session
	analyzeSvc    *application.AnalyzeService
	extractor     *source.Extractor
}

// NewMisrafixMCPServer creates an MCP server with all misrafix tools and
// resources registered. catalogPath empty selects the embedded catalog.
// Catalog problems surface here, at startup, not on first tool call.
func NewMisrafixMCPServer(workspaceRoot, catalogPath string) (*server.MCPServer, error) {
	rules, err := loadRules(catalogPath)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession()
	ms := &misrafixServer{
		workspaceRoot: workspaceRoot,
		session:       session,
		analyzeSvc: application.NewAnalyzeService(
			sarif.New(),
			domain.NewMatcher(rules),
			cache.New(),
			session,
		),
		extractor: source.NewExtractor(workspaceRoot),
	}

	s := server.NewMCPServer(
		"misrafix",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	ms.registerTools(s)
	ms.registerResources(s)

	return s, nil
}

func loadRules(catalogPath string) (map[string]domain.RuleDefinition, error) {
	if catalogPath == "" {
		return catalog.LoadDefault()
	}
	return catalog.Load(catalogPath)
}

// newFixService builds the fix pipeline with the current completion
// configuration. Rebuilt per call so configuration changes made while the
// server runs take effect.
func (ms *misrafixServer) newFixService(cfg domain.CompletionConfig) *application.FixService {
	return application.NewFixService(
		ms.extractor,
		newCompletionClient(cfg),
		source.NewApplicator(ms.extractor),
		history.New(),
		gitinfo.New(),
	)
}
