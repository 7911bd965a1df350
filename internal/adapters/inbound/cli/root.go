package cli

import (
	"github.com/spf13/cobra"

	"github.com/misrafix/misrafix/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "misrafix",
		Short:         "Review and fix MISRA C violations with AI assistance",
		Long:          "Misrafix ingests SARIF analysis logs of MISRA C violations, explains each finding from its rule catalog, and drives an AI-generated suggest/apply fix pipeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(debug)
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
