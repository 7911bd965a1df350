package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/misrafix/misrafix/internal/domain"
	"github.com/misrafix/misrafix/internal/logging"
)

// FixService drives the suggest/apply pipeline for one violation: extract
// context, build the prompt, obtain a suggestion from the completion
// service, and on approval map it back onto the source file.
type FixService struct {
	extractor  domain.ContextExtractor
	completion domain.CompletionService
	applicator domain.FixApplicator
	history    domain.FixHistory
	locator    domain.WorkspaceLocator
}

func NewFixService(
	extractor domain.ContextExtractor,
	completion domain.CompletionService,
	applicator domain.FixApplicator,
	history domain.FixHistory,
	locator domain.WorkspaceLocator,
) *FixService {
	return &FixService{
		extractor:  extractor,
		completion: completion,
		applicator: applicator,
		history:    history,
		locator:    locator,
	}
}

// Suggest builds and submits the fix request for one resolved violation.
// An unreadable source file degrades to a placeholder snippet instead of
// aborting; completion-service failures propagate for the caller to
// surface.
func (s *FixService) Suggest(ctx context.Context, v domain.ResolvedViolation) (domain.FixSuggestion, error) {
	loc := v.Record.PrimaryLocation()

	snippet, err := s.extractor.Window(loc)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if !errors.As(err, &extractionErr) {
			return domain.FixSuggestion{}, err
		}
		logging.Logger.Warnw("context extraction failed", "uri", loc.ArtifactURI, "error", err)
		snippet = fmt.Sprintf("[source unavailable: %s]", loc.ArtifactURI)
	}

	// The exact span is what an applied fix will replace; keep it on the
	// suggestion so apply can verify the file has not changed underneath.
	var originalCode string
	if span, err := s.extractor.Span(loc); err == nil {
		originalCode = strings.Join(span, "\n")
	}

	prompt, err := domain.BuildFixPrompt(domain.FixRequest{Resolved: v, Snippet: snippet})
	if err != nil {
		return domain.FixSuggestion{}, err
	}

	reply, err := s.completion.Complete(ctx, domain.SystemPrompt, prompt)
	if err != nil {
		return domain.FixSuggestion{}, err
	}

	return domain.ParseReply(reply, v.Rule.RuleID, originalCode), nil
}

// Apply maps a user-approved suggestion back onto the source file and
// records it in the audit ledger.
func (s *FixService) Apply(v domain.ResolvedViolation, fix domain.FixSuggestion, workspaceRoot string) error {
	if !fix.Usable() {
		return &domain.EditRejectedError{
			Path:   v.Record.PrimaryLocation().ArtifactURI,
			Reason: "suggestion carries no usable fixed code",
		}
	}

	loc := v.Record.PrimaryLocation()
	if err := s.applicator.Apply(loc, fix); err != nil {
		return err
	}

	entry := domain.FixEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		RuleID:    fix.RuleID,
		File:      loc.ArtifactURI,
		StartLine: loc.StartLine,
		EndLine:   loc.EndLine,
	}
	if hash, err := s.locator.CommitHash(workspaceRoot); err == nil {
		entry.CommitHash = hash
	}
	if err := s.history.Append(workspaceRoot, entry); err != nil {
		// The edit itself succeeded; the ledger is best-effort.
		logging.Logger.Warnw("recording fix history failed", "error", err)
	}
	return nil
}
