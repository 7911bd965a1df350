package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrafix/misrafix/internal/domain"
)

func TestBaseIndent_FirstNonBlankLine(t *testing.T) {
	assert.Equal(t, "    ", domain.BaseIndent([]string{"", "    if (a > b) {"}))
	assert.Equal(t, "\t", domain.BaseIndent([]string{"\tx = 1;"}))
	assert.Equal(t, "", domain.BaseIndent([]string{"", "   ", ""}))
}

func TestReindent_FirstLineGetsBaseIndent(t *testing.T) {
	lines := domain.Reindent("if ((int32_t)a > b) {", "    ")
	require.Len(t, lines, 1)
	assert.Equal(t, "    if ((int32_t)a > b) {", lines[0])
}

func TestReindent_LaterLinesKeepRelativeIndent(t *testing.T) {
	lines := domain.Reindent("if (n != 0) {\n  do_thing();\n}", "    ")
	require.Len(t, lines, 3)
	assert.Equal(t, "    if (n != 0) {", lines[0])
	assert.Equal(t, "      do_thing();", lines[1])
	assert.Equal(t, "    }", lines[2])
}

func TestReindent_BlankLinesPassThrough(t *testing.T) {
	lines := domain.Reindent("a;\n\nb;", "  ")
	require.Len(t, lines, 3)
	assert.Equal(t, "", lines[1])
}

func TestBuildReplacement_CommentsOriginalAndAddsMarker(t *testing.T) {
	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	original := []string{"    if (a > b) {"}

	out := domain.BuildReplacement(original, "if (a > (uint32_t)b) {", at)

	require.Len(t, out, 3)
	assert.Equal(t, "    // if (a > b) {", out[0])
	assert.Equal(t, "    // [misrafix] automated fix applied 2026-08-24T12:00:00Z", out[1])
	assert.Equal(t, "    if (a > (uint32_t)b) {", out[2])
}

func TestBuildReplacement_MultiLineSpanGrowsByTwo(t *testing.T) {
	at := time.Now()
	original := []string{"  x = 1;", "  y = 2;"}

	out := domain.BuildReplacement(original, "x = 1;\ny = 2;", at)

	// N original lines become N commented + 1 marker + N fixed.
	assert.Len(t, out, 5)
	for _, line := range out[:2] {
		assert.True(t, strings.HasPrefix(line, "  // "))
	}
}
