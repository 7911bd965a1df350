package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/domain"
)

func sampleResolved() domain.ResolvedViolation {
	return domain.ResolvedViolation{
		Record: domain.ViolationRecord{
			RuleIdentifier: "MISRA2012-10.1",
			Message:        "Signed/unsigned comparison",
			SeverityLevel:  domain.LevelWarning,
			Locations: []domain.SourceRange{
				{ArtifactURI: "sample.c", StartLine: 8, StartColumn: 9, EndLine: 8, EndColumn: 9},
			},
		},
		Rule: domain.RuleDefinition{
			RuleID:      "10.1",
			Title:       "Operands shall not be of an inappropriate essential type",
			Category:    "EssentialTypeModel",
			Severity:    "Required",
			Description: "Mixing signed and unsigned operands relies on implicit conversions.",
			Remediation: "Make both operands the same essential type.",
		},
	}
}

func TestBuildFixPrompt_EmbedsRuleAndSnippet(t *testing.T) {
	prompt, err := domain.BuildFixPrompt(domain.FixRequest{
		Resolved: sampleResolved(),
		Snippet:  "    if (a > b) {",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "10.1")
	assert.Contains(t, prompt, "Operands shall not be of an inappropriate essential type")
	assert.Contains(t, prompt, "Essential Type Model")
	assert.Contains(t, prompt, "Signed/unsigned comparison")
	assert.Contains(t, prompt, "    if (a > b) {")
	assert.Contains(t, prompt, "Make both operands the same essential type.")
	assert.Contains(t, prompt, domain.FixedCodeMarker)
	assert.Contains(t, prompt, domain.ExplanationMarker)
}

func TestBuildFixPrompt_Deterministic(t *testing.T) {
	req := domain.FixRequest{Resolved: sampleResolved(), Snippet: "if (a > b) {"}

	first, err := domain.BuildFixPrompt(req)
	require.NoError(t, err)
	second, err := domain.BuildFixPrompt(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseReply_WellFormed(t *testing.T) {
	reply := "Here is the fix.\n\nFIXED_CODE:\n```c\nif (a > (uint32_t)b) {\n```\nEXPLANATION:\nCast the signed operand after checking it is non-negative.\n\nFurther notes ignored."

	fix := domain.ParseReply(reply, "10.1", "if (a > b) {")

	assert.Equal(t, "10.1", fix.RuleID)
	assert.Equal(t, "if (a > b) {", fix.OriginalCode)
	assert.Equal(t, "if (a > (uint32_t)b) {", fix.FixedCode)
	assert.Equal(t, "Cast the signed operand after checking it is non-negative.", fix.Explanation)
	assert.True(t, fix.Usable())
}

func TestParseReply_MultiLineFix(t *testing.T) {
	reply := "FIXED_CODE:\n```c\nif (n != 0) {\n  do_thing();\n}\n```\nEXPLANATION:\nBrace the body."

	fix := domain.ParseReply(reply, "15.6", "if (n) do_thing();")

	assert.Equal(t, "if (n != 0) {\n  do_thing();\n}", fix.FixedCode)
	assert.Equal(t, "Brace the body.", fix.Explanation)
}

func TestParseReply_MissingFixedCodeDegrades(t *testing.T) {
	fix := domain.ParseReply("EXPLANATION:\nJust words.", "10.1", "x")

	assert.Equal(t, domain.NoFixPlaceholder, fix.FixedCode)
	assert.Equal(t, "Just words.", fix.Explanation)
	assert.False(t, fix.Usable())
}

func TestParseReply_MissingExplanationDegrades(t *testing.T) {
	fix := domain.ParseReply("FIXED_CODE:\n```c\nx = 1;\n```", "10.1", "x")

	assert.Equal(t, "x = 1;", fix.FixedCode)
	assert.Equal(t, domain.NoExplanationPlaceholder, fix.Explanation)
}

func TestParseReply_UnterminatedFenceDegrades(t *testing.T) {
	fix := domain.ParseReply("FIXED_CODE:\n```c\nx = 1;", "10.1", "x")

	assert.Equal(t, domain.NoFixPlaceholder, fix.FixedCode)
}

func TestHumanizeCategory(t *testing.T) {
	assert.Equal(t, "Essential Type Model", domain.HumanizeCategory("EssentialTypeModel"))
	assert.Equal(t, "Standard Libraries", domain.HumanizeCategory("StandardLibraries"))
	assert.Equal(t, "", domain.HumanizeCategory(""))
}
