package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/misrafix/misrafix/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	noteTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	codeStyle     = lipgloss.NewStyle().Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderBatch renders the violation list view for one analysis batch.
func RenderBatch(batch *domain.Batch) string {
	var b strings.Builder

	title := headerStyle.Render("misrafix")
	subtitle := dimStyle.Render("MISRA C violations")
	count := titleStyle.Render(fmt.Sprintf("%d matched", len(batch.Violations)))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + count))
	b.WriteString("\n\n")

	if len(batch.Violations) == 0 {
		b.WriteString("  " + passStyle.Render("No catalog-matched violations found.") + "\n")
		return b.String()
	}

	for i, v := range batch.Violations {
		renderListEntry(&b, i, v)
	}
	return b.String()
}

// RenderDetail renders the detail view for one violation: rule metadata,
// analyzer message, and the extracted context window.
func RenderDetail(v domain.ResolvedViolation, contextWindow string) string {
	var b strings.Builder
	loc := v.Record.PrimaryLocation()

	b.WriteString("  ")
	b.WriteString(severityTag(v.Record.SeverityLevel))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(fmt.Sprintf("MISRA %s — %s", v.Rule.RuleID, v.Rule.Title)))
	b.WriteString("\n")
	b.WriteString("  " + fileStyle.Render(fmt.Sprintf("%s:%d-%d", loc.ArtifactURI, loc.StartLine, loc.EndLine)))
	b.WriteString("\n\n")

	if v.Rule.Category != "" {
		b.WriteString("  " + dimStyle.Render("Category: "+domain.HumanizeCategory(v.Rule.Category)) + "\n")
	}
	b.WriteString("  " + dimStyle.Render("Severity: "+v.Rule.Severity) + "\n\n")
	b.WriteString("  " + v.Rule.Description + "\n\n")
	b.WriteString("  " + titleStyle.Render("Analyzer message") + "\n")
	b.WriteString("  " + v.Record.Message + "\n\n")

	b.WriteString("  " + titleStyle.Render("Source context") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for _, line := range strings.Split(contextWindow, "\n") {
		b.WriteString("  " + codeStyle.Render(line) + "\n")
	}
	b.WriteString("  " + separatorLine + "\n")

	if v.Rule.Remediation != "" {
		b.WriteString("\n  " + titleStyle.Render("Remediation") + "\n")
		b.WriteString("  " + v.Rule.Remediation + "\n")
	}
	return b.String()
}

// RenderSuggestion renders a fix suggestion for user review.
func RenderSuggestion(fix domain.FixSuggestion) string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Suggested fix for MISRA "+fix.RuleID) + "\n\n")

	b.WriteString("  " + dimStyle.Render("Original") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for _, line := range strings.Split(fix.OriginalCode, "\n") {
		b.WriteString("  " + errorTagStyle.Render("- ") + codeStyle.Render(line) + "\n")
	}

	b.WriteString("\n  " + dimStyle.Render("Fixed") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for _, line := range strings.Split(fix.FixedCode, "\n") {
		b.WriteString("  " + passStyle.Render("+ ") + codeStyle.Render(line) + "\n")
	}

	b.WriteString("\n  " + titleStyle.Render("Explanation") + "\n")
	b.WriteString("  " + fix.Explanation + "\n")

	if !fix.Usable() {
		b.WriteString("\n  " + warnTagStyle.Render("The model reply was malformed; this suggestion cannot be applied.") + "\n")
	}
	return b.String()
}

// RenderHistory renders the applied-fix ledger.
func RenderHistory(entries []domain.FixEntry) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Applied fixes") + "\n\n")
	if len(entries) == 0 {
		b.WriteString("  " + dimStyle.Render("none yet") + "\n")
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			dimStyle.Render(e.Timestamp),
			titleStyle.Render("MISRA "+e.RuleID),
			fileStyle.Render(fmt.Sprintf("%s:%d-%d", e.File, e.StartLine, e.EndLine)),
		))
	}
	return b.String()
}

func renderListEntry(b *strings.Builder, index int, v domain.ResolvedViolation) {
	loc := v.Record.PrimaryLocation()
	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		dimStyle.Render(fmt.Sprintf("[%d]", index)),
		severityTag(v.Record.SeverityLevel),
		titleStyle.Render(fmt.Sprintf("MISRA %s — %s", v.Rule.RuleID, v.Rule.Title)),
	))
	b.WriteString("      " + fileStyle.Render(fmt.Sprintf("%s:%d", loc.ArtifactURI, loc.StartLine)))
	b.WriteString("  " + dimStyle.Render(v.Record.Message) + "\n")
}

func severityTag(level string) string {
	switch level {
	case domain.LevelError:
		return errorTagStyle.Render("ERROR")
	case domain.LevelNote:
		return noteTagStyle.Render("NOTE ")
	default:
		return warnTagStyle.Render("WARN ")
	}
}
