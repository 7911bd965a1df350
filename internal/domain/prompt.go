package domain

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/fatih/camelcase"
)

//go:embed prompts/fix_prompt.md
var fixPromptText string

var fixPromptTmpl = template.Must(template.New("fix").Parse(fixPromptText))

// SystemPrompt is the system-role message sent with every fix request.
const SystemPrompt = "You are an expert in MISRA C compliance and embedded C programming. You return minimal, standard-conforming fixes."

// Reply markers the completion client parses the model output by.
const (
	FixedCodeMarker   = "FIXED_CODE:"
	ExplanationMarker = "EXPLANATION:"

	NoFixPlaceholder         = "no fix provided"
	NoExplanationPlaceholder = "no explanation provided"
)

// FixRequest carries everything the prompt embeds. Pure data; building the
// prompt has no side effects and is reproducible for identical inputs.
type FixRequest struct {
	Resolved ResolvedViolation
	Snippet  string
}

// BuildFixPrompt renders the deterministic fix prompt for one resolved
// violation and its extracted context snippet.
func BuildFixPrompt(req FixRequest) (string, error) {
	loc := req.Resolved.Record.PrimaryLocation()
	rule := req.Resolved.Rule

	data := map[string]any{
		"RuleID":      rule.RuleID,
		"Title":       rule.Title,
		"Category":    HumanizeCategory(rule.Category),
		"Severity":    rule.Severity,
		"Description": rule.Description,
		"Message":     req.Resolved.Record.Message,
		"File":        filepath.Base(loc.ArtifactURI),
		"StartLine":   loc.StartLine,
		"EndLine":     loc.EndLine,
		"Snippet":     strings.TrimRight(req.Snippet, "\n"),
		"Remediation": rule.Remediation,
	}

	var b strings.Builder
	if err := fixPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering fix prompt: %w", err)
	}
	return b.String(), nil
}

// ParseReply extracts a FixSuggestion from the model's semi-structured
// reply. A missing block degrades to a placeholder instead of failing, so a
// malformed reply stays displayable without aborting the pipeline.
func ParseReply(reply, ruleID, originalCode string) FixSuggestion {
	return FixSuggestion{
		RuleID:       ruleID,
		OriginalCode: originalCode,
		FixedCode:    extractFencedBlock(reply, FixedCodeMarker),
		Explanation:  extractTextBlock(reply, ExplanationMarker),
	}
}

// extractFencedBlock finds marker, then the first fenced code block after
// it. Returns the fix placeholder when either is absent.
func extractFencedBlock(reply, marker string) string {
	idx := strings.Index(reply, marker)
	if idx < 0 {
		return NoFixPlaceholder
	}
	rest := reply[idx+len(marker):]

	open := strings.Index(rest, "```")
	if open < 0 {
		return NoFixPlaceholder
	}
	rest = rest[open+3:]
	// Skip a language tag on the fence line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}

	closing := strings.Index(rest, "```")
	if closing < 0 {
		return NoFixPlaceholder
	}
	code := strings.TrimRight(rest[:closing], "\n")
	if strings.TrimSpace(code) == "" {
		return NoFixPlaceholder
	}
	return code
}

// extractTextBlock finds marker, then free text up to a blank line or end
// of reply.
func extractTextBlock(reply, marker string) string {
	idx := strings.Index(reply, marker)
	if idx < 0 {
		return NoExplanationPlaceholder
	}
	rest := strings.TrimLeft(reply[idx+len(marker):], " \n")

	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return NoExplanationPlaceholder
	}
	return rest
}

// HumanizeCategory turns a catalog category identifier such as
// "EssentialTypeModel" into "Essential Type Model" for prompts and display.
func HumanizeCategory(category string) string {
	if category == "" {
		return ""
	}
	return strings.Join(camelcase.Split(category), " ")
}
