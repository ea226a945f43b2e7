package wrappers

import (
	"context"
	"fmt"

	"github.com/user/aclsec/pkg/engine"
)

// FindingsViewerWrapper implements the Tool interface for viewing stored findings
type FindingsViewerWrapper struct {
	Store *engine.Store
}

func (f *FindingsViewerWrapper) Name() string {
	return "ShowFindings"
}

func (f *FindingsViewerWrapper) Description() string {
	return "Displays the findings of an analysis with their severity, rule number, rule text and recommendation."
}

func (f *FindingsViewerWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"analysis_id": analysisIDProperty,
			"severity": map[string]interface{}{
				"type":        "string",
				"description": "Only show findings of this severity (HIGH, MEDIUM or LOW).",
				"enum":        []string{"HIGH", "MEDIUM", "LOW"},
			},
		},
	}
}

func (f *FindingsViewerWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	a, msg := analysis(f.Store, args)
	if a == nil {
		return msg, nil
	}

	var only engine.Severity
	if v := stringArg(args, "severity"); v != "" {
		sev, err := engine.ParseSeverity(v)
		if err != nil {
			return fmt.Sprintf("Error: %v", err), nil
		}
		only = sev
	}

	return engine.Report(a, only), nil
}
