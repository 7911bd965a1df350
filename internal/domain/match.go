package domain

import (
	"regexp"
	"strings"
)

// markerWord identifies the rule family of interest in identifiers and
// free-text messages.
const markerWord = "MISRA"

var (
	// Trailing dotted-numeric token, e.g. the "10.1" in "MISRA2012-10.1".
	suffixPattern = regexp.MustCompile(`(\d+\.\d+)$`)

	// Marker word followed (possibly via filler words) by a dotted number,
	// e.g. "violates MISRA rule 10.1".
	messagePattern = regexp.MustCompile(`(?i)misra\D{0,20}?(\d+\.\d+)`)
)

// Matcher resolves inconsistently encoded rule identifiers to canonical
// catalog keys. Read-only over an immutable catalog.
type Matcher struct {
	rules map[string]RuleDefinition
}

// NewMatcher creates a Matcher over the loaded catalog.
func NewMatcher(rules map[string]RuleDefinition) *Matcher {
	return &Matcher{rules: rules}
}

// Resolve maps a violation record to its catalog entry. Ordered,
// first match wins: direct lookup, then trailing dotted-numeric suffix of
// the identifier, then a marker-word scan of the message. Exact identifiers
// are trusted before anything inferred from free text.
//
// A record that matches nothing is not an error: absence is expected for
// rules outside the catalog, and such records are dropped by the caller.
func (m *Matcher) Resolve(record ViolationRecord) (RuleDefinition, bool) {
	// 1. Direct lookup.
	if rule, ok := m.rules[record.RuleIdentifier]; ok {
		return rule, true
	}

	// 2. Suffix extraction from a vendor-prefixed identifier.
	if sub := suffixPattern.FindString(record.RuleIdentifier); sub != "" {
		if rule, ok := m.rules[sub]; ok {
			return rule, true
		}
	}

	// 3. Message scan.
	if sub := messagePattern.FindStringSubmatch(record.Message); len(sub) == 2 {
		if rule, ok := m.rules[sub[1]]; ok {
			return rule, true
		}
	}

	return RuleDefinition{}, false
}

// FilterMarked selects the records whose identifier or message mentions the
// rule family. Pure and idempotent over the parsed sequence.
func FilterMarked(records []ViolationRecord) []ViolationRecord {
	out := make([]ViolationRecord, 0, len(records))
	for _, r := range records {
		if MatchesMarker(r) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesMarker reports whether the record's identifier or message mentions
// the rule family, case-insensitively. Pure predicate; used to filter a
// parsed batch down to findings this tool knows how to handle.
func MatchesMarker(record ViolationRecord) bool {
	return strings.Contains(strings.ToUpper(record.RuleIdentifier), markerWord) ||
		strings.Contains(strings.ToUpper(record.Message), markerWord)
}
