package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/aclsec/pkg/engine"
)

// RemediationWrapper implements the Tool interface for generating remediation plans
type RemediationWrapper struct {
	Engine *engine.RemediationEngine
	Store  *engine.Store
}

func (r *RemediationWrapper) Name() string {
	return "GenerateRemediation"
}

func (r *RemediationWrapper) Description() string {
	return "Generates a remediation plan (fix/validate/rollback commands) for a finding. Pass the rule_number of a finding from the latest analysis, or a template_id with variables."
}

func (r *RemediationWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"analysis_id": analysisIDProperty,
			"rule_number": map[string]interface{}{
				"type":        "integer",
				"description": "1-based rule number of the finding to remediate.",
			},
			"template_id": map[string]interface{}{
				"type":        "string",
				"description": "The ID of the remediation template to use. If neither this nor rule_number is given, lists available templates.",
			},
			"variables": map[string]interface{}{
				"type":        "object",
				"description": "Key-value pairs for template variables (e.g., {'acl_name': 'OUTSIDE_IN', 'port': '23'}).",
			},
		},
	}
}

func (r *RemediationWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if r.Engine == nil {
		return "Error: Remediation engine not initialized.", nil
	}

	if ruleNumber, ok := intArg(args, "rule_number"); ok {
		return r.forRule(args, ruleNumber, progress), nil
	}

	templateID := stringArg(args, "template_id")
	if templateID == "" {
		templates := r.Engine.ListTemplates()
		if len(templates) == 0 {
			return "No remediation templates found.", nil
		}
		return fmt.Sprintf("Available Remediation Templates:\n- %s", strings.Join(templates, "\n- ")), nil
	}

	if progress != nil {
		progress(fmt.Sprintf("Generating remediation plan for %s...", templateID))
	}

	plan, err := r.Engine.GeneratePlan(templateID, stringMapArg(args, "variables"))
	if err != nil {
		return fmt.Sprintf("Error generating plan: %v", err), nil
	}
	return plan, nil
}

// forRule renders a plan for every finding raised against one rule.
func (r *RemediationWrapper) forRule(args map[string]interface{}, ruleNumber int, progress func(string)) string {
	a, msg := analysis(r.Store, args)
	if a == nil {
		return msg
	}

	var plans []string
	for _, f := range a.Findings {
		if f.RuleNumber != ruleNumber {
			continue
		}
		if progress != nil {
			progress(fmt.Sprintf("Generating %s plan for rule %d...", f.Check, ruleNumber))
		}
		plan, err := r.Engine.PlanFor(f, a.Rules)
		if err != nil {
			plans = append(plans, fmt.Sprintf("Error generating plan for %s: %v", f.Check, err))
			continue
		}
		plans = append(plans, plan)
	}

	if len(plans) == 0 {
		return fmt.Sprintf("No findings for rule %d.", ruleNumber)
	}
	return strings.Join(plans, "\n")
}
