package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/aclsec/pkg/engine"
)

// PortPolicyWrapper implements the Tool interface for inspecting the risky port table
type PortPolicyWrapper struct {
	Ports engine.PortTable
}

func (p *PortPolicyWrapper) Name() string {
	return "ListRiskyPorts"
}

func (p *PortPolicyWrapper) Description() string {
	return "Lists the ports the risky-port check flags, with the warning reported for each. Can look up a single port."
}

func (p *PortPolicyWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"port": map[string]interface{}{
				"type":        "string",
				"description": "Port number to look up. If omitted, lists all risky ports.",
			},
		},
	}
}

func (p *PortPolicyWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if len(p.Ports) == 0 {
		return "No risky ports configured.", nil
	}

	if port := stringArg(args, "port"); port != "" {
		risk, ok := p.Ports.Lookup(port)
		if !ok {
			return fmt.Sprintf("Port %s is not in the risky port table.", port), nil
		}
		return fmt.Sprintf("Port %s (%s): %s", risk.Port, risk.Pattern(), risk.Warning), nil
	}

	var sb strings.Builder
	sb.WriteString("Risky ports:\n")
	for _, risk := range p.Ports {
		fmt.Fprintf(&sb, "- %s: %s\n", risk.Port, risk.Warning)
	}
	fmt.Fprintf(&sb, "\nTotal: %d ports", len(p.Ports))
	return sb.String(), nil
}
