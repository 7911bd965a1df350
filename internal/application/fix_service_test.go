package application_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/adapters/outbound/history"
	"github.com/misrafix/misrafix/internal/adapters/outbound/source"
	"github.com/misrafix/misrafix/internal/application"
	"github.com/misrafix/misrafix/internal/domain"
)

const fixSampleC = `#include <stdint.h>

static uint32_t limit = 100U;

int check(int32_t a, uint32_t b)
{
    (void)b;
    if (a > limit) {
        return 1;
    }
    return 0;
}
`

// fakeCompletion returns a canned reply and records the prompts it saw.
type fakeCompletion struct {
	reply   string
	err     error
	system  string
	prompts []string
}

func (f *fakeCompletion) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeLocator pins the workspace root and revision.
type fakeLocator struct {
	root string
	hash string
}

func (f *fakeLocator) Root(string) (string, error)       { return f.root, nil }
func (f *fakeLocator) CommitHash(string) (string, error) { return f.hash, nil }

func sampleWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.c"), []byte(fixSampleC), 0o644))
	return root
}

func resolvedAt(line int) domain.ResolvedViolation {
	return domain.ResolvedViolation{
		Record: domain.ViolationRecord{
			RuleIdentifier: "MISRA2012-10.1",
			Message:        "Signed/unsigned comparison",
			SeverityLevel:  domain.LevelWarning,
			Locations: []domain.SourceRange{
				{ArtifactURI: "sample.c", StartLine: line, EndLine: line},
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

func newFixService(root string, completion domain.CompletionService) *application.FixService {
	extractor := source.NewExtractor(root)
	return application.NewFixService(
		extractor,
		completion,
		source.NewApplicator(extractor),
		history.New(),
		&fakeLocator{root: root, hash: "abc123"},
	)
}

func TestSuggest_PromptCarriesRuleAndContextWindow(t *testing.T) {
	root := sampleWorkspace(t)
	fake := &fakeCompletion{
		reply: "FIXED_CODE:\n```c\nif ((uint32_t)a > limit) {\n```\nEXPLANATION:\nCast after a sign check.",
	}
	svc := newFixService(root, fake)

	fix, err := svc.Suggest(context.Background(), resolvedAt(8))
	require.NoError(t, err)

	require.Len(t, fake.prompts, 1)
	prompt := fake.prompts[0]
	// Two context lines on each side of line 8.
	assert.Contains(t, prompt, "(void)b;")
	assert.Contains(t, prompt, "if (a > limit) {")
	assert.Contains(t, prompt, "return 1;")
	assert.NotContains(t, prompt, "#include <stdint.h>")
	assert.Contains(t, prompt, "10.1")
	assert.Contains(t, prompt, "Make both operands the same essential type.")
	assert.Equal(t, domain.SystemPrompt, fake.system)

	assert.Equal(t, "10.1", fix.RuleID)
	assert.Equal(t, "    if (a > limit) {", fix.OriginalCode)
	assert.Equal(t, "if ((uint32_t)a > limit) {", fix.FixedCode)
	assert.True(t, fix.Usable())
}

func TestSuggest_UnreadableSourceDegradesToPlaceholder(t *testing.T) {
	root := t.TempDir() // no sample.c
	fake := &fakeCompletion{
		reply: "FIXED_CODE:\n```c\nx = 1;\n```\nEXPLANATION:\nE.",
	}
	svc := newFixService(root, fake)

	_, err := svc.Suggest(context.Background(), resolvedAt(8))
	require.NoError(t, err)

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "[source unavailable: sample.c]")
}

func TestSuggest_CompletionFailurePropagates(t *testing.T) {
	root := sampleWorkspace(t)
	fake := &fakeCompletion{err: domain.ErrInvalidCredential}
	svc := newFixService(root, fake)

	_, err := svc.Suggest(context.Background(), resolvedAt(8))
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestApply_EndToEnd(t *testing.T) {
	root := sampleWorkspace(t)
	fake := &fakeCompletion{
		reply: "FIXED_CODE:\n```c\nif ((uint32_t)a > limit) {\n```\nEXPLANATION:\nCast after a sign check.",
	}
	svc := newFixService(root, fake)

	v := resolvedAt(8)
	fix, err := svc.Suggest(context.Background(), v)
	require.NoError(t, err)
	require.NoError(t, svc.Apply(v, fix, root))

	data, err := os.ReadFile(filepath.Join(root, "sample.c"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	// The single-line span grows by the commented original and the marker.
	assert.Len(t, lines, 14)
	assert.Equal(t, "    // if (a > limit) {", lines[7])
	assert.Contains(t, lines[8], "[misrafix] automated fix applied")
	assert.Equal(t, "    if ((uint32_t)a > limit) {", lines[9])

	entries, err := history.New().Load(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "10.1", entries[0].RuleID)
	assert.Equal(t, "sample.c", entries[0].File)
	assert.Equal(t, 8, entries[0].StartLine)
	assert.Equal(t, "abc123", entries[0].CommitHash)
}

func TestApply_RejectsUnusableSuggestion(t *testing.T) {
	root := sampleWorkspace(t)
	svc := newFixService(root, &fakeCompletion{})

	err := svc.Apply(resolvedAt(8), domain.FixSuggestion{
		RuleID:       "10.1",
		OriginalCode: "    if (a > limit) {",
		FixedCode:    domain.NoFixPlaceholder,
	}, root)

	var rejected *domain.EditRejectedError
	require.ErrorAs(t, err, &rejected)
}

func TestApply_RejectsWhenFileChangedSinceSuggestion(t *testing.T) {
	root := sampleWorkspace(t)
	fake := &fakeCompletion{
		reply: "FIXED_CODE:\n```c\nif ((uint32_t)a > limit) {\n```\nEXPLANATION:\nE.",
	}
	svc := newFixService(root, fake)

	v := resolvedAt(8)
	fix, err := svc.Suggest(context.Background(), v)
	require.NoError(t, err)

	// Simulate an edit landing between suggest and apply.
	changed := strings.Replace(fixSampleC, "if (a > limit) {", "if (a >= limit) {", 1)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.c"), []byte(changed), 0o644))

	err = svc.Apply(v, fix, root)
	var rejected *domain.EditRejectedError
	require.ErrorAs(t, err, &rejected)
}
