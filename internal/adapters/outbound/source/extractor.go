package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/misrafix/misrafix/internal/domain"
)

// Context margin: lines included before and after the violation range when
// building the prompting/display window.
const (
	linesBefore = 2
	linesAfter  = 2
)

// Extractor implements domain.ContextExtractor over the local filesystem.
// Artifact URIs are resolved against workspaceRoot when relative.
type Extractor struct {
	workspaceRoot string
}

// NewExtractor creates an Extractor rooted at workspaceRoot.
func NewExtractor(workspaceRoot string) *Extractor {
	return &Extractor{workspaceRoot: workspaceRoot}
}

// Window returns the source lines from startLine-2 through endLine+2,
// clipped at document boundaries, joined with newlines.
func (e *Extractor) Window(rng domain.SourceRange) (string, error) {
	lines, err := e.readLines(rng.ArtifactURI)
	if err != nil {
		return "", err
	}

	// Log lines are 1-based; slice indices are 0-based.
	start := rng.StartLine - 1 - linesBefore
	if start < 0 {
		start = 0
	}
	end := rng.EndLine + linesAfter // exclusive 0-based == inclusive 1-based
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return "", nil
	}
	return strings.Join(lines[start:end], "\n"), nil
}

// Span returns exactly the violation's reported [StartLine, EndLine] lines,
// verbatim. This narrower range, not the window, is what the applicator
// replaces.
func (e *Extractor) Span(rng domain.SourceRange) ([]string, error) {
	lines, err := e.readLines(rng.ArtifactURI)
	if err != nil {
		return nil, err
	}

	start := rng.StartLine - 1
	end := rng.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil, &domain.ExtractionError{URI: rng.ArtifactURI, Err: os.ErrInvalid}
	}
	return lines[start:end], nil
}

// ResolvePath maps an artifact URI to a filesystem path: strips a file://
// prefix, then resolves relative paths against the workspace root.
func (e *Extractor) ResolvePath(artifactURI string) string {
	path := strings.TrimPrefix(artifactURI, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.workspaceRoot, path)
	}
	return path
}

func (e *Extractor) readLines(artifactURI string) ([]string, error) {
	data, err := os.ReadFile(e.ResolvePath(artifactURI))
	if err != nil {
		return nil, &domain.ExtractionError{URI: artifactURI, Err: err}
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}
