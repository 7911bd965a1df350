package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misrafix/misrafix/internal/adapters/outbound/source"
	"github.com/misrafix/misrafix/internal/adapters/outbound/tui"
	"github.com/misrafix/misrafix/internal/domain"
)

func newShowCmd() *cobra.Command {
	var (
		jsonOutput  bool
		catalogPath string
		rootPath    string
		at          string
	)

	cmd := &cobra.Command{
		Use:   "show [index]",
		Short: "Show details for one violation of the last analysis",
		Long:  "Show rule metadata, the analyzer message, and the source context window for a violation from the last analyze run, selected by index or by --at file:line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := workspaceRoot(rootPath)
			if err != nil {
				return err
			}

			session := domain.NewSession()
			svc, err := newAnalyzeService(catalogPath, session)
			if err != nil {
				return err
			}
			if _, err := svc.Restore(root); err != nil {
				return err
			}

			violation, err := selectViolation(session, args, at)
			if err != nil {
				return err
			}

			extractor := source.NewExtractor(root)
			window, err := extractor.Window(violation.Record.PrimaryLocation())
			if err != nil {
				// Unreadable source degrades to a placeholder; the rule
				// details are still worth showing.
				window = fmt.Sprintf("[source unavailable: %s]", violation.Record.PrimaryLocation().ArtifactURI)
			}

			if jsonOutput {
				return renderJSON(cmd, struct {
					Violation domain.ResolvedViolation `json:"violation"`
					Context   string                   `json:"context"`
				}{violation, window})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDetail(violation, window))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output details as JSON")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Rule catalog file (defaults to the embedded catalog)")
	cmd.Flags().StringVar(&rootPath, "path", ".", "Workspace root for resolving relative source paths")
	cmd.Flags().StringVar(&at, "at", "", "Select by location instead of index, as file:line")

	return cmd
}

// selectViolation picks a batch entry either by positional index or by
// exact range containment of a file:line location.
func selectViolation(session *domain.Session, args []string, at string) (domain.ResolvedViolation, error) {
	if at != "" {
		file, lineStr, ok := strings.Cut(at, ":")
		if !ok {
			return domain.ResolvedViolation{}, fmt.Errorf("--at expects file:line, got %q", at)
		}
		line, err := strconv.Atoi(lineStr)
		if err != nil {
			return domain.ResolvedViolation{}, fmt.Errorf("--at expects a numeric line, got %q", lineStr)
		}
		v, ok := session.FindAt(file, line)
		if !ok {
			return domain.ResolvedViolation{}, fmt.Errorf("no violation at %s", at)
		}
		return v, nil
	}

	if len(args) == 0 {
		return domain.ResolvedViolation{}, fmt.Errorf("an index or --at file:line is required")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.ResolvedViolation{}, fmt.Errorf("index must be a number, got %q", args[0])
	}
	v, ok := session.Violation(index)
	if !ok {
		return domain.ResolvedViolation{}, fmt.Errorf("no violation with index %d", index)
	}
	return v, nil
}
