package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/aclsec/pkg/acl"
)

func newRemediateCmd() *cobra.Command {
	var (
		rule      int
		policy    string
		templates string
	)
	c := &cobra.Command{
		Use:   "remediate <config_file>",
		Short: "Print remediation plans for the findings in a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(policy, templates)
			if err != nil {
				return err
			}
			rules, err := acl.ParseFile(args[0])
			if err != nil {
				return err
			}
			if rule != 0 && (rule < 1 || rule > len(rules)) {
				return fmt.Errorf("rule %d out of range (1-%d)", rule, len(rules))
			}

			findings := tk.evaluator.Evaluate(rules)
			out := cmd.OutOrStdout()
			printed := 0
			for _, f := range findings {
				if rule != 0 && f.RuleNumber != rule {
					continue
				}
				plan, err := tk.remediation.PlanFor(f, rules)
				if err != nil {
					return fmt.Errorf("rule %d: %w", f.RuleNumber, err)
				}
				fmt.Fprintf(out, "Rule %d [%s] %s\n%s\n", f.RuleNumber, f.Severity, f.Issue, plan)
				printed++
			}
			if printed == 0 {
				fmt.Fprintln(out, "No findings to remediate.")
			}
			return nil
		},
	}
	c.Flags().IntVarP(&rule, "rule", "r", 0, "Only remediate findings for this 1-based rule number")
	c.Flags().StringVar(&policy, "policy", "", "Risky port policy file or directory")
	c.Flags().StringVar(&templates, "templates", "", "Extra remediation templates directory")
	return c
}
