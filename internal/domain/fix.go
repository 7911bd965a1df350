package domain

import (
	"fmt"
	"strings"
	"time"
)

// CommentPrefix is the line-comment prefix for the C sources this tool
// targets.
const CommentPrefix = "// "

// auditMarkerFormat is the audit trail line appended after the commented-out
// original. The timestamp makes repeated applications distinguishable.
const auditMarkerFormat = "// [misrafix] automated fix applied %s"

// BaseIndent returns the leading whitespace run of the first non-blank line.
// Empty when no line has content.
func BaseIndent(lines []string) string {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	return ""
}

// Reindent rebases the suggested fix onto the original base indentation.
// The first line gets exactly the base indent; later lines keep their own
// leading whitespace on top of the base; blank lines pass through unchanged.
func Reindent(fixedCode, baseIndent string) []string {
	lines := strings.Split(strings.TrimRight(fixedCode, "\n"), "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, line)
			continue
		}
		if i == 0 {
			out = append(out, baseIndent+strings.TrimLeft(line, " \t"))
			continue
		}
		out = append(out, baseIndent+line)
	}
	return out
}

// BuildReplacement constructs the text block that replaces the original
// violation span: each original line commented out, an audit marker line,
// then the reindented fix. The caller applies it as one atomic edit.
func BuildReplacement(originalLines []string, fixedCode string, appliedAt time.Time) []string {
	baseIndent := BaseIndent(originalLines)

	out := make([]string, 0, len(originalLines)+2)
	for _, line := range originalLines {
		out = append(out, baseIndent+CommentPrefix+strings.TrimLeft(line, " \t"))
	}
	out = append(out, baseIndent+fmt.Sprintf(auditMarkerFormat, appliedAt.Format(time.RFC3339)))
	out = append(out, Reindent(fixedCode, baseIndent)...)
	return out
}
