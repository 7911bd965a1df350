package domain

import (
	"sync/atomic"
	"time"
)

// Batch is the immutable result of one analysis run: the resolved
// violations in log order plus run metadata.
type Batch struct {
	LogPath    string              `json:"log_path"`
	AnalyzedAt time.Time           `json:"analyzed_at"`
	Violations []ResolvedViolation `json:"violations"`
}

// Session holds the current analysis batch for repeated detail lookups.
// Replacement is a whole-snapshot pointer swap: readers always see either
// the previous batch or the new one, never a partial update, so no locking
// is needed.
type Session struct {
	current atomic.Pointer[Batch]
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Replace installs a new batch, discarding the previous one wholesale.
func (s *Session) Replace(batch *Batch) {
	s.current.Store(batch)
}

// Current returns the installed batch, or nil when no analysis has run.
func (s *Session) Current() *Batch {
	return s.current.Load()
}

// Violation returns the batch entry at index.
func (s *Session) Violation(index int) (ResolvedViolation, bool) {
	batch := s.current.Load()
	if batch == nil || index < 0 || index >= len(batch.Violations) {
		return ResolvedViolation{}, false
	}
	return batch.Violations[index], true
}

// FindAt returns the first violation whose primary range contains the given
// line of the given artifact. Exact range containment; no fuzzy matching.
func (s *Session) FindAt(artifactURI string, line int) (ResolvedViolation, bool) {
	batch := s.current.Load()
	if batch == nil {
		return ResolvedViolation{}, false
	}
	for _, v := range batch.Violations {
		loc := v.Record.PrimaryLocation()
		if loc.ArtifactURI == artifactURI && loc.Contains(line) {
			return v, true
		}
	}
	return ResolvedViolation{}, false
}
