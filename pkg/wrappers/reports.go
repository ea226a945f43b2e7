package wrappers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/report"
)

// ReportWrapper implements the Tool interface for writing report files
type ReportWrapper struct {
	Store     *engine.Store
	OutputDir string
	Formats   []report.Format
}

func (r *ReportWrapper) Name() string {
	return "WriteReports"
}

func (r *ReportWrapper) Description() string {
	return "Writes JSON, CSV and/or HTML reports for an analysis to the output directory and returns the file paths."
}

func (r *ReportWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"analysis_id": analysisIDProperty,
			"output_dir": map[string]interface{}{
				"type":        "string",
				"description": "Directory to write the reports to. Defaults to the configured output directory.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Comma separated formats: json, csv, html or all. Defaults to the configured formats.",
			},
		},
	}
}

func (r *ReportWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	a, msg := analysis(r.Store, args)
	if a == nil {
		return msg, nil
	}

	formats := r.Formats
	if v := stringArg(args, "format"); v != "" {
		parsed, err := report.ParseFormats(v)
		if err != nil {
			return fmt.Sprintf("Error: %v", err), nil
		}
		formats = parsed
	}
	if len(formats) == 0 {
		formats = report.AllFormats
	}

	outDir := stringArg(args, "output_dir")
	if outDir == "" {
		outDir = r.OutputDir
	}
	if outDir == "" {
		outDir = "."
	}

	if progress != nil {
		progress(fmt.Sprintf("Writing reports to %s...", outDir))
	}
	paths, err := report.Generate(ctx, outDir, report.BaseName("security_report", time.Now()), formats, report.FromAnalysis(a))
	if err != nil {
		return fmt.Sprintf("Error writing reports: %v", err), nil
	}
	return fmt.Sprintf("Reports written:\n- %s", strings.Join(paths, "\n- ")), nil
}
