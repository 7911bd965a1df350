package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configAdapter "github.com/misrafix/misrafix/internal/adapters/outbound/config"
	"github.com/misrafix/misrafix/internal/domain"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage completion-service configuration",
	}
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	var override domain.CompletionConfig
	var provider string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist completion-service credentials and routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := configAdapter.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			override.Provider = domain.Provider(provider)
			merged := current.Merge(override)
			if merged.Configured() {
				if err := merged.Validate(); err != nil {
					return err
				}
			}

			if err := configAdapter.Save(merged); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}
			path, _ := configAdapter.Path()
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider kind: openai or azure")
	cmd.Flags().StringVar(&override.APIKey, "api-key", "", "API credential")
	cmd.Flags().StringVar(&override.Model, "model", "", "Model selector (openai)")
	cmd.Flags().StringVar(&override.Endpoint, "endpoint", "", "Service endpoint (azure, or openai override)")
	cmd.Flags().StringVar(&override.Deployment, "deployment", "", "Deployment name (azure)")
	cmd.Flags().StringVar(&override.APIVersion, "api-version", "", "API version discriminator (azure)")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective completion-service configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configAdapter.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			provider := cfg.Provider
			if provider == "" {
				provider = domain.ProviderOpenAI
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provider:    %s\n", provider)
			fmt.Fprintf(out, "api_key:     %s\n", maskKey(cfg.APIKey))
			if cfg.Model != "" {
				fmt.Fprintf(out, "model:       %s\n", cfg.Model)
			}
			if cfg.Endpoint != "" {
				fmt.Fprintf(out, "endpoint:    %s\n", cfg.Endpoint)
			}
			if cfg.Deployment != "" {
				fmt.Fprintf(out, "deployment:  %s\n", cfg.Deployment)
			}
			if cfg.APIVersion != "" {
				fmt.Fprintf(out, "api_version: %s\n", cfg.APIVersion)
			}
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
