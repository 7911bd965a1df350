package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configAdapter "github.com/misrafix/misrafix/internal/adapters/outbound/config"
	"github.com/misrafix/misrafix/internal/adapters/outbound/completion"
	"github.com/misrafix/misrafix/internal/adapters/outbound/gitinfo"
	"github.com/misrafix/misrafix/internal/adapters/outbound/history"
	"github.com/misrafix/misrafix/internal/adapters/outbound/source"
	"github.com/misrafix/misrafix/internal/adapters/outbound/tui"
	"github.com/misrafix/misrafix/internal/application"
	"github.com/misrafix/misrafix/internal/domain"
)

func newFixCmd() *cobra.Command {
	var (
		jsonOutput  bool
		apply       bool
		catalogPath string
		rootPath    string
	)

	cmd := &cobra.Command{
		Use:   "fix <index>",
		Short: "Generate an AI fix suggestion for a violation, optionally applying it",
		Long:  "Extract the violating source context, ask the configured completion service for a fix, and show the suggestion for review. With --apply the fix is written back into the source file with the original commented out as an audit trail.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number, got %q", args[0])
			}

			root, err := workspaceRoot(rootPath)
			if err != nil {
				return err
			}

			session := domain.NewSession()
			analyzeSvc, err := newAnalyzeService(catalogPath, session)
			if err != nil {
				return err
			}
			if _, err := analyzeSvc.Restore(root); err != nil {
				return err
			}

			violation, ok := session.Violation(index)
			if !ok {
				return fmt.Errorf("no violation with index %d", index)
			}

			cfg, err := configAdapter.Load()
			if err != nil {
				return fmt.Errorf("loading completion configuration: %w", err)
			}
			if !cfg.Configured() {
				return fmt.Errorf("%w; run 'misrafix config set' or set %s", domain.ErrConfigurationMissing, configAdapter.EnvAPIKey)
			}

			extractor := source.NewExtractor(root)
			fixSvc := application.NewFixService(
				extractor,
				completion.NewClient(cfg),
				source.NewApplicator(extractor),
				history.New(),
				gitinfo.New(),
			)

			suggestion, err := fixSvc.Suggest(cmd.Context(), violation)
			if err != nil {
				return fmt.Errorf("fix generation failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, suggestion); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuggestion(suggestion))
			}

			if !apply {
				return nil
			}
			if err := fixSvc.Apply(violation, suggestion, root); err != nil {
				return fmt.Errorf("applying fix failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nApplied fix for MISRA %s to %s\n",
				suggestion.RuleID, violation.Record.PrimaryLocation().ArtifactURI)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output suggestion as JSON")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply the suggestion to the source file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Rule catalog file (defaults to the embedded catalog)")
	cmd.Flags().StringVar(&rootPath, "path", ".", "Workspace root for resolving relative source paths")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var rootPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List fixes applied in this workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := workspaceRoot(rootPath)
			if err != nil {
				return err
			}
			entries, err := history.New().Load(root)
			if err != nil {
				return fmt.Errorf("loading fix history: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootPath, "path", ".", "Workspace root")
	return cmd
}
