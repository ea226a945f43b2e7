package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/aclsec/pkg/acl"
	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/logger"
	"github.com/user/aclsec/pkg/report"
)

const defaultTopIssues = 5

type analyzeOptions struct {
	outputDir  string
	format     string
	policy     string
	templates  string
	quiet      bool
	verbose    bool
	noReport   bool
	concurrent bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	c := &cobra.Command{
		Use:   "analyze <config_file>",
		Short: "Analyze a firewall configuration file",
		Long: `Extracts the extended access-list rules from a firewall configuration,
evaluates them and writes reports.

Exit status is 0 when no HIGH severity findings exist, 1 when at least one
does, and 2 when the analysis could not run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	c.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Output directory for reports (default from config, ./reports)")
	c.Flags().StringVarP(&opts.format, "format", "f", "", "Report format: json, csv, html or all")
	c.Flags().StringVar(&opts.policy, "policy", "", "Risky port policy file or directory")
	c.Flags().StringVar(&opts.templates, "templates", "", "Extra remediation templates directory")
	c.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress console output")
	c.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List every finding with its remediation plan")
	c.Flags().BoolVar(&opts.noReport, "no-report", false, "Do not write report files")
	c.Flags().BoolVar(&opts.concurrent, "concurrent", false, "Run checks concurrently")
	return c
}

func runAnalyze(ctx context.Context, out io.Writer, path string, opts *analyzeOptions) error {
	if opts.quiet {
		prev := logger.SetQuiet(true)
		defer logger.SetQuiet(prev)
	}

	tk, err := newToolkit(opts.policy, opts.templates)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	formats, err := report.ParseFormats(firstNonEmpty(opts.format, tk.cfg.Format))
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	logger.Infof("Analyzing firewall configuration: %s", path)
	rules, err := acl.ParseFile(path)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	logger.Infof("Extracted %d ACL rules", len(rules))

	var findings []engine.Finding
	if opts.concurrent {
		findings, err = tk.evaluator.EvaluateConcurrent(ctx, rules)
		if err != nil {
			return &ExitError{Code: 2, Err: err}
		}
	} else {
		findings = tk.evaluator.Evaluate(rules)
	}
	logger.Debugf("%d checks produced %d findings", len(tk.evaluator.Checks()), len(findings))

	rep := report.New(path, rules, findings)

	if !opts.noReport {
		outDir := firstNonEmpty(opts.outputDir, tk.cfg.OutputDir)
		paths, err := report.Generate(ctx, outDir, report.BaseName("security_report", time.Now()), formats, rep)
		if err != nil {
			return &ExitError{Code: 2, Err: err}
		}
		for _, p := range paths {
			logger.Infof("Report generated: %s", p)
		}
	}

	if !opts.quiet {
		top := defaultTopIssues
		if opts.verbose {
			top = len(findings)
		}
		report.WriteSummary(out, rep, top)
		if opts.verbose {
			writePlans(out, tk.remediation, findings, rules)
		}
	}

	if engine.HasHigh(findings) {
		return &ExitError{Code: 1}
	}
	return nil
}

func writePlans(out io.Writer, rem *engine.RemediationEngine, findings []engine.Finding, rules []acl.Rule) {
	for _, f := range findings {
		plan, err := rem.PlanFor(f, rules)
		if err != nil {
			logger.Warnf("no remediation plan for rule %d (%s): %v", f.RuleNumber, f.Check, err)
			continue
		}
		fmt.Fprintf(out, "\nRule %d - %s\n%s", f.RuleNumber, f.Issue, plan)
	}
}
