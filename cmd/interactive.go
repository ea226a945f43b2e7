package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/aclsec/pkg/adk"
	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/report"
	"github.com/user/aclsec/pkg/wrappers"
)

// registerTools wires the firewall analysis tools into agent.
func registerTools(agent *adk.Agent, tk *toolkit, store *engine.Store) error {
	formats, err := report.ParseFormats(tk.cfg.Format)
	if err != nil {
		return err
	}
	agent.RegisterTool(&wrappers.AnalyzeConfigWrapper{Evaluator: tk.evaluator, Store: store})
	agent.RegisterTool(&wrappers.FindingsViewerWrapper{Store: store})
	agent.RegisterTool(&wrappers.RemediationWrapper{Engine: tk.remediation, Store: store})
	agent.RegisterTool(&wrappers.PortPolicyWrapper{Ports: tk.ports})
	agent.RegisterTool(&wrappers.ReportWrapper{Store: store, OutputDir: tk.cfg.OutputDir, Formats: formats})
	return nil
}

func newInteractiveCmd() *cobra.Command {
	var policy, templates string
	c := &cobra.Command{
		Use:   "interactive",
		Short: "Start the interactive AI assistant session",
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(policy, templates)
			if err != nil {
				return err
			}
			cfg := tk.cfg

			providerName := firstNonEmpty(cfg.SelectedProvider, "gemini")
			apiKey := cfg.GetAPIKey(providerName)
			if apiKey == "" {
				return fmt.Errorf("API key not found for %s, run 'aclsec setup' to configure your keys", providerName)
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			fmt.Fprintf(out, "Connecting to %s (Model: %s)...\n", providerName, cfg.SelectedModel)

			provider, err := adk.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
			if err != nil {
				return fmt.Errorf("creating AI provider: %w", err)
			}
			if closer, ok := provider.(interface{ Close() }); ok {
				defer closer.Close()
			}

			agent := adk.NewAgent(provider)
			if err := registerTools(agent, tk, engine.NewStore()); err != nil {
				return err
			}
			agent.SetSystemPrompt(adk.GetSystemPrompt())

			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintln(out, "\n---------------------------------------------------------")
			fmt.Fprintln(out, "aclsec assistant ready.")
			fmt.Fprintln(out, "Example: 'Analyze ./configs/edge-fw.conf'")
			fmt.Fprintln(out, "Example: 'How do I fix rule 3?'")
			fmt.Fprintln(out, "Type 'quit' or 'exit' to stop.")
			fmt.Fprintln(out, "---------------------------------------------------------")

			for {
				fmt.Fprint(out, "\n> ")
				if !scanner.Scan() {
					break
				}
				input := scanner.Text()
				if input == "quit" || input == "exit" {
					break
				}
				if input == "" {
					continue
				}

				fmt.Fprint(out, "Agent thinking... ")
				resp, err := agent.Chat(ctx, input, func(msg string) {
					fmt.Fprintf(out, "\r\033[K[Progress]: %s\nAgent thinking... ", msg)
				})
				fmt.Fprint(out, "\r\033[K")

				if err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
				} else {
					fmt.Fprintf(out, "\n[Agent]: %s\n", resp)
				}
			}
			return scanner.Err()
		},
	}
	c.Flags().StringVar(&policy, "policy", "", "Risky port policy file or directory")
	c.Flags().StringVar(&templates, "templates", "", "Extra remediation templates directory")
	return c
}
