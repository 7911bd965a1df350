package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/misrafix/misrafix/internal/domain"
)

// Applicator maps an approved FixSuggestion back onto the source file as a
// single atomic range edit: commented-out original, audit marker, then the
// reindented fix.
type Applicator struct {
	extractor *Extractor
	now       func() time.Time
}

// NewApplicator creates an Applicator sharing the extractor's path
// resolution. The clock is overridable for tests.
func NewApplicator(extractor *Extractor) *Applicator {
	return &Applicator{extractor: extractor, now: time.Now}
}

// WithClock returns a copy using the given clock.
func (a *Applicator) WithClock(now func() time.Time) *Applicator {
	return &Applicator{extractor: a.extractor, now: now}
}

// Apply rewrites the violation span [StartLine, EndLine] of the target
// artifact. The edit is all-or-nothing: the new content is staged to a
// temporary file and renamed over the original. When the current span no
// longer matches the suggestion's original code the edit is rejected with
// *domain.EditRejectedError and nothing is written.
func (a *Applicator) Apply(rng domain.SourceRange, fix domain.FixSuggestion) error {
	path := a.extractor.ResolvePath(rng.ArtifactURI)

	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("reading target: %v", err)}
	}
	trailingNewline := strings.HasSuffix(string(data), "\n")
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	start := rng.StartLine - 1
	end := rng.EndLine
	if start < 0 || start >= len(lines) || end > len(lines) || start >= end {
		return &domain.EditRejectedError{
			Path:   path,
			Reason: fmt.Sprintf("range %d-%d out of bounds for %d-line file", rng.StartLine, rng.EndLine, len(lines)),
		}
	}

	original := lines[start:end]
	if strings.Join(original, "\n") != fix.OriginalCode {
		return &domain.EditRejectedError{
			Path:   path,
			Reason: "target lines changed since the suggestion was generated",
		}
	}

	replacement := domain.BuildReplacement(original, fix.FixedCode, a.now())

	out := make([]string, 0, len(lines)+len(replacement)-len(original))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)

	content := strings.Join(out, "\n")
	if trailingNewline {
		content += "\n"
	}
	return writeAtomic(path, []byte(content))
}

// writeAtomic stages content next to the target and renames it into place,
// preserving the original file mode.
func writeAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return &domain.EditRejectedError{Path: path, Reason: err.Error()}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".misrafix-*")
	if err != nil {
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("staging edit: %v", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("staging edit: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("staging edit: %v", err)}
	}
	if err := os.Chmod(tmpPath, info.Mode()); err != nil {
		os.Remove(tmpPath)
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("staging edit: %v", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &domain.EditRejectedError{Path: path, Reason: fmt.Sprintf("replacing target: %v", err)}
	}
	return nil
}
