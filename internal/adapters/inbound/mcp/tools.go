package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/misrafix/misrafix/internal/adapters/outbound/config"
	"github.com/misrafix/misrafix/internal/adapters/outbound/completion"
	"github.com/misrafix/misrafix/internal/domain"
)

// newCompletionClient is swappable in tests to avoid real network calls.
var newCompletionClient = func(cfg domain.CompletionConfig) domain.CompletionService {
	return completion.NewClient(cfg)
}

// registerTools registers all misrafix MCP tools on the given server.
func (ms *misrafixServer) registerTools(s *server.MCPServer) {
	// 1. misrafix_analyze
	s.AddTool(
		mcplib.NewTool("misrafix_analyze",
			mcplib.WithDescription("Parse a SARIF diagnostics log, match MISRA violations against the rule catalog, and install the batch for the other tools"),
			mcplib.WithString("log",
				mcplib.Required(),
				mcplib.Description("Path to the SARIF log file"),
			),
		),
		ms.handleAnalyze(),
	)

	// 2. misrafix_list_violations
	s.AddTool(
		mcplib.NewTool("misrafix_list_violations",
			mcplib.WithDescription("Returns the resolved violations of the current analysis batch as JSON"),
		),
		ms.handleListViolations(),
	)

	// 3. misrafix_violation_details
	s.AddTool(
		mcplib.NewTool("misrafix_violation_details",
			mcplib.WithDescription("Returns rule metadata and the source context window for one violation"),
			mcplib.WithNumber("index",
				mcplib.Required(),
				mcplib.Description("Index of the violation in the current batch"),
			),
		),
		ms.handleViolationDetails(),
	)

	// 4. misrafix_suggest_fix
	s.AddTool(
		mcplib.NewTool("misrafix_suggest_fix",
			mcplib.WithDescription("Asks the configured completion service for a fix suggestion for one violation"),
			mcplib.WithNumber("index",
				mcplib.Required(),
				mcplib.Description("Index of the violation in the current batch"),
			),
		),
		ms.handleSuggestFix(),
	)

	// 5. misrafix_apply_fix
	s.AddTool(
		mcplib.NewTool("misrafix_apply_fix",
			mcplib.WithDescription("Applies a reviewed fix to the source file, commenting out the original lines as an audit trail"),
			mcplib.WithNumber("index",
				mcplib.Required(),
				mcplib.Description("Index of the violation in the current batch"),
			),
			mcplib.WithString("fixed_code",
				mcplib.Required(),
				mcplib.Description("The approved replacement for the violating line(s)"),
			),
			mcplib.WithString("explanation",
				mcplib.Description("Rationale recorded with the fix"),
			),
		),
		ms.handleApplyFix(),
	)
}

func (ms *misrafixServer) handleAnalyze() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		logPath, err := request.RequireString("log")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		batch, err := ms.analyzeSvc.Analyze(logPath, ms.workspaceRoot)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(batch)
	}
}

func (ms *misrafixServer) handleListViolations() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		batch, err := ms.currentBatch()
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(batch.Violations)
	}
}

func (ms *misrafixServer) handleViolationDetails() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		violation, result := ms.violationFromRequest(request)
		if result != nil {
			return result, nil
		}

		window, err := ms.extractor.Window(violation.Record.PrimaryLocation())
		if err != nil {
			window = fmt.Sprintf("[source unavailable: %s]", violation.Record.PrimaryLocation().ArtifactURI)
		}

		return jsonResult(struct {
			Violation domain.ResolvedViolation `json:"violation"`
			Context   string                   `json:"context"`
		}{violation, window})
	}
}

func (ms *misrafixServer) handleSuggestFix() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		violation, result := ms.violationFromRequest(request)
		if result != nil {
			return result, nil
		}

		cfg, err := configAdapter.Load()
		if err != nil {
			return errorResult(fmt.Sprintf("loading completion configuration: %v", err)), nil
		}
		if !cfg.Configured() {
			return errorResult(domain.ErrConfigurationMissing.Error()), nil
		}

		suggestion, err := ms.newFixService(cfg).Suggest(ctx, violation)
		if err != nil {
			return errorResult(fmt.Sprintf("fix generation failed: %v", err)), nil
		}
		return jsonResult(suggestion)
	}
}

func (ms *misrafixServer) handleApplyFix() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		violation, result := ms.violationFromRequest(request)
		if result != nil {
			return result, nil
		}

		fixedCode, err := request.RequireString("fixed_code")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		explanation, _ := request.GetArguments()["explanation"].(string)

		// Re-read the exact span so the applicator's concurrent-change
		// verification runs against the file as it is now.
		span, err := ms.extractor.Span(violation.Record.PrimaryLocation())
		if err != nil {
			return errorResult(fmt.Sprintf("reading target span: %v", err)), nil
		}

		fix := domain.FixSuggestion{
			RuleID:       violation.Rule.RuleID,
			OriginalCode: strings.Join(span, "\n"),
			FixedCode:    fixedCode,
			Explanation:  explanation,
		}

		cfg, _ := configAdapter.Load()
		if err := ms.newFixService(cfg).Apply(violation, fix, ms.workspaceRoot); err != nil {
			return errorResult(fmt.Sprintf("applying fix failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("applied fix for MISRA %s to %s",
			fix.RuleID, violation.Record.PrimaryLocation().ArtifactURI)), nil
	}
}

// currentBatch returns the session batch, restoring the persisted one when
// the session is still empty.
func (ms *misrafixServer) currentBatch() (*domain.Batch, error) {
	if batch := ms.session.Current(); batch != nil {
		return batch, nil
	}
	return ms.analyzeSvc.Restore(ms.workspaceRoot)
}

// violationFromRequest resolves the index argument against the current
// batch. The second return value is non-nil on failure and is the tool
// result to return.
func (ms *misrafixServer) violationFromRequest(request mcplib.CallToolRequest) (domain.ResolvedViolation, *mcplib.CallToolResult) {
	if _, err := ms.currentBatch(); err != nil {
		return domain.ResolvedViolation{}, errorResult(err.Error())
	}

	index, ok := request.GetArguments()["index"].(float64)
	if !ok {
		return domain.ResolvedViolation{}, errorResult("index is required")
	}

	violation, ok := ms.session.Violation(int(index))
	if !ok {
		return domain.ResolvedViolation{}, errorResult(fmt.Sprintf("no violation with index %d", int(index)))
	}
	return violation, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
