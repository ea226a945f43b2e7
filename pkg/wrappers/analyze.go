package wrappers

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/aclsec/pkg/acl"
	"github.com/user/aclsec/pkg/engine"
)

// AnalyzeConfigWrapper implements the Tool interface for analyzing a firewall configuration file
type AnalyzeConfigWrapper struct {
	Evaluator *engine.Evaluator
	Store     *engine.Store
}

func (a *AnalyzeConfigWrapper) Name() string {
	return "AnalyzeFirewallConfig"
}

func (a *AnalyzeConfigWrapper) Description() string {
	return "Parses a firewall configuration file, extracts the extended access-list rules and evaluates them for overly permissive rules, broad access and risky ports."
}

func (a *AnalyzeConfigWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the firewall configuration file.",
			},
		},
		"required": []string{"path"},
	}
}

func (a *AnalyzeConfigWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if a.Evaluator == nil || a.Store == nil {
		return "Error: analyzer not initialized.", nil
	}

	path := stringArg(args, "path")
	if path == "" {
		return "Error: path argument is required.", nil
	}

	if progress != nil {
		progress(fmt.Sprintf("Parsing %s...", path))
	}
	rules, err := acl.ParseFile(path)
	if err != nil {
		if errors.Is(err, acl.ErrSourceUnavailable) {
			return fmt.Sprintf("Error: could not read %s: %v", path, err), nil
		}
		return "", err
	}

	if progress != nil {
		progress(fmt.Sprintf("Evaluating %d rules...", len(rules)))
	}
	findings, err := a.Evaluator.EvaluateConcurrent(ctx, rules)
	if err != nil {
		return "", err
	}

	result := engine.NewAnalysis(path, rules, findings)
	a.Store.Add(result)

	return engine.Report(result, ""), nil
}
