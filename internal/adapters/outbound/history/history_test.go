package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/adapters/outbound/history"
	"github.com/misrafix/misrafix/internal/domain"
)

func TestFileHistory_LoadAbsentIsNil(t *testing.T) {
	h := history.New()

	entries, err := h.Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFileHistory_AppendAccumulates(t *testing.T) {
	root := t.TempDir()
	h := history.New()

	first := domain.FixEntry{
		Timestamp:  "2026-08-24T10:00:00Z",
		RuleID:     "10.1",
		File:       "sample.c",
		StartLine:  8,
		EndLine:    8,
		CommitHash: "abc123",
	}
	second := domain.FixEntry{
		Timestamp: "2026-08-24T11:00:00Z",
		RuleID:    "21.6",
		File:      "io.c",
		StartLine: 16,
		EndLine:   18,
	}

	require.NoError(t, h.Append(root, first))
	require.NoError(t, h.Append(root, second))

	entries, err := h.Load(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "10.1", entries[0].RuleID)
	assert.Equal(t, "abc123", entries[0].CommitHash)
	assert.Equal(t, "21.6", entries[1].RuleID)
	assert.Equal(t, 18, entries[1].EndLine)
}
