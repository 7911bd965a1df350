package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misrafix/misrafix/internal/adapters/outbound/tui"
	"github.com/misrafix/misrafix/internal/domain"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonOutput  bool
		catalogPath string
		rootPath    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <log.sarif>",
		Short: "Parse a SARIF log and match MISRA violations against the rule catalog",
		Long:  "Parse a SARIF diagnostics log, keep the MISRA findings, resolve each against the rule catalog, and store the batch for show/fix.",
		Args:  cobra.ExactArgs(1),
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

			batch, err := svc.Analyze(args[0], root)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, batch)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatch(batch))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output batch as JSON")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Rule catalog file (defaults to the embedded catalog)")
	cmd.Flags().StringVar(&rootPath, "path", ".", "Workspace root for resolving relative source paths")

	return cmd
}
