package domain

import "strings"

// Severity levels as reported by analyzers in SARIF logs.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
	LevelNone    = "none"
)

// SourceRange is a 1-based inclusive region in a named source artifact.
// ArtifactURI may be an absolute path, a relative path, or a file:// URI.
type SourceRange struct {
	ArtifactURI string `json:"artifact_uri"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

// Contains reports whether the given 1-based line falls inside the range.
func (r SourceRange) Contains(line int) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// ViolationRecord is one normalized finding extracted from a diagnostics log.
type ViolationRecord struct {
	RuleIdentifier string        `json:"rule_identifier"`
	Message        string        `json:"message"`
	SeverityLevel  string        `json:"severity_level"`
	Locations      []SourceRange `json:"locations"`
}

// Actionable reports whether the record carries at least one resolvable
// location. Records without one are excluded from downstream processing.
func (v ViolationRecord) Actionable() bool {
	return len(v.Locations) > 0
}

// PrimaryLocation returns the first reported location.
// Only valid when Actionable.
func (v ViolationRecord) PrimaryLocation() SourceRange {
	return v.Locations[0]
}

// RuleDefinition is one entry of the rule knowledge base.
// Loaded once at startup and read-only thereafter.
type RuleDefinition struct {
	RuleID      string `json:"rule_id"      yaml:"-"`
	Title       string `json:"title"        yaml:"title"`
	Description string `json:"description"  yaml:"description"`
	Category    string `json:"category"     yaml:"category"`
	Severity    string `json:"severity"     yaml:"severity"`
	Example     string `json:"example"      yaml:"example"`
	Remediation string `json:"remediation"  yaml:"remediation"`
}

// ResolvedViolation pairs a ViolationRecord with its matched catalog entry.
type ResolvedViolation struct {
	Record ViolationRecord `json:"record"`
	Rule   RuleDefinition  `json:"rule"`
}

// FixSuggestion is the completion service's proposed remediation for one
// violation. Ephemeral: held only for user review and apply.
type FixSuggestion struct {
	RuleID       string `json:"rule_id"`
	OriginalCode string `json:"original_code"`
	FixedCode    string `json:"fixed_code"`
	Explanation  string `json:"explanation"`
}

// Usable reports whether the suggestion carries actual fixed code, as
// opposed to the placeholder substituted for a malformed model reply.
func (f FixSuggestion) Usable() bool {
	return f.FixedCode != "" && f.FixedCode != NoFixPlaceholder
}

// NormalizeLevel maps a reported SARIF level onto the known set,
// defaulting to warning.
func NormalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelError:
		return LevelError
	case LevelNote, "info", "informational":
		return LevelNote
	case LevelNone:
		return LevelNone
	default:
		return LevelWarning
	}
}
