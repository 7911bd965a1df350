package domain

import "context"

// LogParser decodes a raw diagnostics log into normalized violation
// records.
type LogParser interface {
	Parse(data []byte) ([]ViolationRecord, error)
}

// CompletionService submits a fix prompt to the configured text-generation
// provider and returns the raw reply text. Implementations own pacing,
// retry and timeout policy.
type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ContextExtractor reads a bounded window of source lines around a
// violation for prompting and display, and the exact span for applying.
type ContextExtractor interface {
	// Window returns the context lines around the range (widened by the
	// configured margin), clipped at document boundaries.
	Window(rng SourceRange) (string, error)
	// Span returns the exact [StartLine, EndLine] lines, verbatim.
	Span(rng SourceRange) ([]string, error)
}

// FixApplicator maps an approved suggestion back onto the source file as a
// single range-based edit.
type FixApplicator interface {
	Apply(rng SourceRange, fix FixSuggestion) error
}

// WorkspaceLocator resolves the workspace root used for relative artifact
// paths, and identifies the current revision for audit records.
type WorkspaceLocator interface {
	Root(startPath string) (string, error)
	CommitHash(projectPath string) (string, error)
}

// BatchStore persists the current analysis batch so separate invocations
// can look up details and request fixes without re-parsing the log.
type BatchStore interface {
	Load(workspaceRoot string) (*Batch, error)
	Save(workspaceRoot string, batch *Batch) error
	Invalidate(workspaceRoot string) error
}

// FixHistory records applied fixes as an audit ledger.
type FixHistory interface {
	Append(workspaceRoot string, entry FixEntry) error
	Load(workspaceRoot string) ([]FixEntry, error)
}

// FixEntry is one line of the applied-fix ledger.
type FixEntry struct {
	Timestamp  string `json:"timestamp"`
	RuleID     string `json:"rule_id"`
	File       string `json:"file"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	CommitHash string `json:"commit_hash,omitempty"`
}
