package sarif_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/adapters/outbound/sarif"
	"github.com/misrafix/misrafix/internal/domain"
)

const sampleLog = `{
  "version": "2.1.0",
  "runs": [
    {
      "results": [
        {
          "ruleId": "MISRA2012-10.1",
          "message": {"text": "Signed/unsigned comparison"},
          "level": "warning",
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "sample.c"},
                "region": {"startLine": 8, "startColumn": 9}
              }
            }
          ]
        },
        {
          "ruleId": "MISRA2012-21.6",
          "message": "Use of sprintf is discouraged",
          "level": "error",
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "file:///abs/sample.c"},
                "region": {"startLine": 16, "endLine": 18, "startColumn": 5, "endColumn": 40}
              }
            }
          ]
        }
      ]
    },
    {
      "results": [
        {
          "ruleId": "MISRA2012-11.3",
          "message": {"text": "Cast from void* to object pointer"},
          "locations": []
        }
      ]
    }
  ]
}`

func TestParse_ConcatenatesRunsInOrder(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "MISRA2012-10.1", records[0].RuleIdentifier)
	assert.Equal(t, "MISRA2012-21.6", records[1].RuleIdentifier)
	assert.Equal(t, "MISRA2012-11.3", records[2].RuleIdentifier)
}

func TestParse_MessageShapes(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, "Signed/unsigned comparison", records[0].Message)
	assert.Equal(t, "Use of sprintf is discouraged", records[1].Message)
}

func TestParse_MessagePlaceholder(t *testing.T) {
	log := `{"runs":[{"results":[{"ruleId":"MISRA2012-10.1"}]}]}`
	records, err := sarif.Parse([]byte(log))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "no message provided", records[0].Message)
}

func TestParse_RegionDefaults(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)

	loc := records[0].PrimaryLocation()
	assert.Equal(t, 8, loc.StartLine)
	assert.Equal(t, 9, loc.StartColumn)
	assert.Equal(t, 8, loc.EndLine)
	assert.Equal(t, 9, loc.EndColumn)

	loc = records[1].PrimaryLocation()
	assert.Equal(t, 16, loc.StartLine)
	assert.Equal(t, 18, loc.EndLine)
}

func TestParse_FileURIKeptVerbatim(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)
	assert.Equal(t, "file:///abs/sample.c", records[1].PrimaryLocation().ArtifactURI)
}

func TestParse_ZeroLocationRecordStillEmitted(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)

	assert.Empty(t, records[2].Locations)
	assert.False(t, records[2].Actionable())
}

func TestParse_IncompleteLocationsSkipped(t *testing.T) {
	log := `{"runs":[{"results":[{
		"ruleId": "MISRA2012-10.1",
		"message": {"text": "m"},
		"locations": [
			{"physicalLocation": {"region": {"startLine": 3}}},
			{"physicalLocation": {"artifactLocation": {"uri": "a.c"}}},
			{"physicalLocation": {"artifactLocation": {"uri": "b.c"}, "region": {"startLine": 5}}}
		]
	}]}]}`

	records, err := sarif.Parse([]byte(log))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Locations, 1)
	assert.Equal(t, "b.c", records[0].PrimaryLocation().ArtifactURI)
}

func TestParse_LevelNormalized(t *testing.T) {
	records, err := sarif.Parse([]byte(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, domain.LevelWarning, records[0].SeverityLevel)
	assert.Equal(t, domain.LevelError, records[1].SeverityLevel)
	// Absent level defaults to warning.
	assert.Equal(t, domain.LevelWarning, records[2].SeverityLevel)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := sarif.Parse([]byte("{not json"))
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParse_MissingRuns(t *testing.T) {
	_, err := sarif.Parse([]byte(`{"version": "2.1.0"}`))
	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "runs")
}

func TestParse_EmptyRunsIsValid(t *testing.T) {
	records, err := sarif.Parse([]byte(`{"runs": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}
