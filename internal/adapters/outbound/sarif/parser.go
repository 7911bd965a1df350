package sarif

import (
	"encoding/json"
	"strings"

	"github.com/misrafix/misrafix/internal/domain"
)

// SARIF 2.1.0 wire shapes, reduced to the fields this tool consumes.

type sarifLog struct {
	Runs *[]sarifRun `json:"runs"`
}

type sarifRun struct {
	Results []sarifResult `json:"results"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Message   json.RawMessage `json:"message"`
	Level     string          `json:"level"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation *sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

const noMessagePlaceholder = "no message provided"

// Parser implements domain.LogParser for SARIF logs.
type Parser struct{}

// New creates a SARIF log parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Parse(data []byte) ([]domain.ViolationRecord, error) {
	return Parse(data)
}

// Parse decodes a SARIF diagnostics log into normalized violation records.
// Results from multiple runs are concatenated in run order, then result
// order. Returns *domain.ParseError when the input is not valid JSON or the
// top-level runs collection is absent.
func Parse(data []byte) ([]domain.ViolationRecord, error) {
	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, &domain.ParseError{Reason: "invalid JSON", Err: err}
	}
	if log.Runs == nil {
		return nil, &domain.ParseError{Reason: "missing runs collection"}
	}

	var records []domain.ViolationRecord
	for _, run := range *log.Runs {
		for _, result := range run.Results {
			records = append(records, toRecord(result))
		}
	}
	return records, nil
}

func toRecord(result sarifResult) domain.ViolationRecord {
	record := domain.ViolationRecord{
		RuleIdentifier: result.RuleID,
		Message:        extractMessage(result.Message),
		SeverityLevel:  domain.NormalizeLevel(result.Level),
	}

	for _, loc := range result.Locations {
		// Locations missing either the artifact or the region are
		// skipped, not fabricated.
		if loc.PhysicalLocation == nil ||
			loc.PhysicalLocation.ArtifactLocation == nil ||
			loc.PhysicalLocation.ArtifactLocation.URI == "" ||
			loc.PhysicalLocation.Region == nil {
			continue
		}
		record.Locations = append(record.Locations, toRange(
			loc.PhysicalLocation.ArtifactLocation.URI,
			*loc.PhysicalLocation.Region,
		))
	}

	return record
}

// extractMessage handles both SARIF message encodings: a plain string and a
// {text} object.
func extractMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return noMessagePlaceholder
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		if strings.TrimSpace(plain) == "" {
			return noMessagePlaceholder
		}
		return plain
	}

	var structured struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && strings.TrimSpace(structured.Text) != "" {
		return structured.Text
	}

	return noMessagePlaceholder
}

// toRange applies the SARIF region defaults: startLine/startColumn default
// to 1, end fields default to their start counterparts.
func toRange(uri string, region sarifRegion) domain.SourceRange {
	rng := domain.SourceRange{
		ArtifactURI: uri,
		StartLine:   region.StartLine,
		StartColumn: region.StartColumn,
		EndLine:     region.EndLine,
		EndColumn:   region.EndColumn,
	}
	if rng.StartLine <= 0 {
		rng.StartLine = 1
	}
	if rng.StartColumn <= 0 {
		rng.StartColumn = 1
	}
	if rng.EndLine <= 0 {
		rng.EndLine = rng.StartLine
	}
	if rng.EndColumn <= 0 {
		rng.EndColumn = rng.StartColumn
	}
	return rng
}
