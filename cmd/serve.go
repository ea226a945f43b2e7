package cmd

import (
	"github.com/spf13/cobra"

	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/report"
	"github.com/user/aclsec/pkg/server"
)

func newServeCmd() *cobra.Command {
	var (
		listen    string
		policy    string
		uploadDir string
		reportDir string
	)
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP analysis API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(policy, "")
			if err != nil {
				return err
			}
			formats, err := report.ParseFormats(tk.cfg.Format)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				UploadDir:      firstNonEmpty(uploadDir, tk.cfg.Server.UploadDir),
				ReportDir:      firstNonEmpty(reportDir, tk.cfg.Server.ReportDir),
				MaxUploadBytes: tk.cfg.MaxUploadBytes(),
				Formats:        formats,
			}, tk.evaluator, tk.ports, engine.NewStore())

			return srv.ListenAndServe(cmd.Context(), firstNonEmpty(listen, tk.cfg.Server.Listen))
		},
	}
	c.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config, 127.0.0.1:5000)")
	c.Flags().StringVar(&policy, "policy", "", "Risky port policy file or directory")
	c.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for uploaded configurations")
	c.Flags().StringVar(&reportDir, "report-dir", "", "Directory for generated reports")
	return c
}
