package application

import (
	"fmt"
	"os"
	"time"

	"github.com/misrafix/misrafix/internal/domain"
	"github.com/misrafix/misrafix/internal/logging"
)

// AnalyzeService runs the resolution pipeline: parse the diagnostics log,
// keep the MISRA findings, match each against the rule catalog, and install
// the result as the current batch.
type AnalyzeService struct {
	parser  domain.LogParser
	matcher *domain.Matcher
	store   domain.BatchStore
	session *domain.Session
}

func NewAnalyzeService(parser domain.LogParser, matcher *domain.Matcher, store domain.BatchStore, session *domain.Session) *AnalyzeService {
	return &AnalyzeService{parser: parser, matcher: matcher, store: store, session: session}
}

// Analyze processes one diagnostics log. Records without a resolvable
// location or without a catalog match are dropped; everything else becomes
// a ResolvedViolation in log order. The batch replaces the previous one
// wholesale, in memory and on disk.
func (s *AnalyzeService) Analyze(logPath, workspaceRoot string) (*domain.Batch, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("reading diagnostics log: %w", err)
	}

	records, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	records = domain.FilterMarked(records)

	batch := &domain.Batch{
		LogPath:    logPath,
		AnalyzedAt: time.Now(),
	}
	for _, record := range records {
		if !record.Actionable() {
			logging.Logger.Debugw("dropping record without location", "rule", record.RuleIdentifier)
			continue
		}
		rule, ok := s.matcher.Resolve(record)
		if !ok {
			logging.Logger.Debugw("no catalog match", "rule", record.RuleIdentifier)
			continue
		}
		batch.Violations = append(batch.Violations, domain.ResolvedViolation{
			Record: record,
			Rule:   rule,
		})
	}

	s.session.Replace(batch)
	if err := s.store.Save(workspaceRoot, batch); err != nil {
		// Persistence is best-effort; the in-memory batch is authoritative.
		logging.Logger.Warnw("persisting batch failed", "error", err)
	}
	return batch, nil
}

// Restore loads the last persisted batch into the session, so detail and
// fix lookups work across separate invocations.
func (s *AnalyzeService) Restore(workspaceRoot string) (*domain.Batch, error) {
	batch, err := s.store.Load(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("loading analysis batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("no analysis batch found; run analyze first")
	}
	s.session.Replace(batch)
	return batch, nil
}
