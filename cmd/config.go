package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/aclsec/pkg/adk"
	"github.com/user/aclsec/pkg/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration (providers, models, keys)",
	}
	configCmd.AddCommand(newSetKeyCmd(), newSetModelCmd(), newListModelsCmd(), newShowConfigCmd())
	return configCmd
}

func newSetKeyCmd() *cobra.Command {
	var provider, key string
	c := &cobra.Command{
		Use:   "set-key",
		Short: "Manually set API key for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" || key == "" {
				return fmt.Errorf("--provider and --key are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			provider = strings.ToLower(provider)
			cfg.SetAPIKey(provider, key)
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
			return nil
		},
	}
	c.Flags().StringVarP(&provider, "provider", "p", "", "Provider ("+strings.Join(adk.Providers, ", ")+")")
	c.Flags().StringVarP(&key, "key", "k", "", "API Key")
	return c
}

func newSetModelCmd() *cobra.Command {
	var provider, model string
	c := &cobra.Command{
		Use:   "set-model",
		Short: "Manually set the active provider and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if provider != "" {
				cfg.SelectedProvider = strings.ToLower(provider)
			}
			if model != "" {
				cfg.SelectedModel = model
			}

			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
			return nil
		},
	}
	c.Flags().StringVarP(&provider, "provider", "p", "", "Provider ("+strings.Join(adk.Providers, ", ")+")")
	c.Flags().StringVarP(&model, "model", "m", "", "Model name")
	return c
}

func newListModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List available models from the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			provider := cfg.SelectedProvider
			if provider == "" {
				return fmt.Errorf("no provider selected, run 'aclsec setup'")
			}
			apiKey := cfg.GetAPIKey(provider)
			if apiKey == "" {
				return fmt.Errorf("no API key found for %s", provider)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fetching models for %s...\n", provider)
			ctx := cmd.Context()
			p, err := adk.NewProvider(ctx, provider, apiKey, "")
			if err != nil {
				return fmt.Errorf("initializing provider: %w", err)
			}
			if closer, ok := p.(interface{ Close() }); ok {
				defer closer.Close()
			}

			models, err := p.ListModels(ctx)
			if err != nil {
				return fmt.Errorf("fetching models: %w", err)
			}

			fmt.Fprintf(out, "\nAvailable Models (%s):\n", provider)
			for _, m := range models {
				mark := " "
				if m == cfg.SelectedModel {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, m)
			}
			return nil
		},
	}
}

func newShowConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with API keys masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			masked := *cfg
			masked.Providers = make(map[string]config.ProviderConfig, len(cfg.Providers))
			for name, p := range cfg.Providers {
				p.APIKey = maskKey(p.APIKey)
				masked.Providers[name] = p
			}

			data, err := yaml.Marshal(&masked)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", cfg.Path())
			_, err = out.Write(data)
			return err
		},
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
