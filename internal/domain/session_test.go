package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/domain"
)

func sampleBatch() *domain.Batch {
	return &domain.Batch{
		LogPath: "report.sarif",
		Violations: []domain.ResolvedViolation{
			{
				Record: domain.ViolationRecord{
					RuleIdentifier: "MISRA2012-10.1",
					Locations: []domain.SourceRange{
						{ArtifactURI: "sample.c", StartLine: 8, EndLine: 8},
					},
				},
				Rule: domain.RuleDefinition{RuleID: "10.1"},
			},
			{
				Record: domain.ViolationRecord{
					RuleIdentifier: "MISRA2012-21.6",
					Locations: []domain.SourceRange{
						{ArtifactURI: "sample.c", StartLine: 16, EndLine: 18},
					},
				},
				Rule: domain.RuleDefinition{RuleID: "21.6"},
			},
		},
	}
}

func TestSession_EmptyUntilReplaced(t *testing.T) {
	s := domain.NewSession()

	assert.Nil(t, s.Current())
	_, ok := s.Violation(0)
	assert.False(t, ok)
}

func TestSession_ReplaceIsWholesale(t *testing.T) {
	s := domain.NewSession()
	s.Replace(sampleBatch())
	require.NotNil(t, s.Current())
	assert.Len(t, s.Current().Violations, 2)

	s.Replace(&domain.Batch{LogPath: "other.sarif"})
	assert.Equal(t, "other.sarif", s.Current().LogPath)
	assert.Empty(t, s.Current().Violations)
}

func TestSession_ViolationByIndex(t *testing.T) {
	s := domain.NewSession()
	s.Replace(sampleBatch())

	v, ok := s.Violation(1)
	require.True(t, ok)
	assert.Equal(t, "21.6", v.Rule.RuleID)

	_, ok = s.Violation(2)
	assert.False(t, ok)
	_, ok = s.Violation(-1)
	assert.False(t, ok)
}

func TestSession_FindAt_RangeContainment(t *testing.T) {
	s := domain.NewSession()
	s.Replace(sampleBatch())

	v, ok := s.FindAt("sample.c", 17)
	require.True(t, ok)
	assert.Equal(t, "21.6", v.Rule.RuleID)

	// Exact containment only: neighboring lines do not match.
	_, ok = s.FindAt("sample.c", 9)
	assert.False(t, ok)
	_, ok = s.FindAt("other.c", 8)
	assert.False(t, ok)
}
