package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newChecksCmd() *cobra.Command {
	var policy string
	c := &cobra.Command{
		Use:   "checks",
		Short: "List the security checks and the active risky port table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(policy, "")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHECK\tDESCRIPTION")
			for _, chk := range tk.evaluator.Checks() {
				fmt.Fprintf(w, "%s\t%s\n", chk.ID, chk.Name)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PORT\tWARNING")
			for _, p := range tk.ports {
				fmt.Fprintf(w, "%s\t%s\n", p.Port, p.Warning)
			}
			return w.Flush()
		},
	}
	c.Flags().StringVar(&policy, "policy", "", "Risky port policy file or directory")
	return c
}
