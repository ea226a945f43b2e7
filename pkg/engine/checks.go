package engine

import (
	"fmt"
	"strings"

	"github.com/user/aclsec/pkg/acl"
)

const (
	CheckOverlyPermissive = "overly-permissive"
	CheckBroadAccess      = "broad-access"
	CheckRiskyPort        = "risky-port"
)

// Check is one full pass over a rule sequence. Run must not retain or
// modify rules.
type Check struct {
	ID   string
	Name string
	Run  func(rules []acl.Rule) []Finding
}

// PerRule lifts a per-rule matcher into a Check. idx is 0-based.
func PerRule(id, name string, match func(idx int, r acl.Rule) []Finding) Check {
	return Check{
		ID:   id,
		Name: name,
		Run: func(rules []acl.Rule) []Finding {
			var out []Finding
			for i, r := range rules {
				for _, f := range match(i, r) {
					f.RuleNumber = i + 1
					f.Rule = r.RawLine
					f.Check = id
					out = append(out, f)
				}
			}
			return out
		},
	}
}

func isAnyToAny(r acl.Rule) bool {
	return r.Source == "any" && r.Destination == "any"
}

// OverlyPermissive flags permit rules from any source to any destination.
func OverlyPermissive() Check {
	return PerRule(CheckOverlyPermissive, "Overly permissive rules", func(_ int, r acl.Rule) []Finding {
		if !r.IsPermit() || !isAnyToAny(r) {
			return nil
		}
		return []Finding{{
			Severity:       SeverityHigh,
			Issue:          "Overly permissive rule",
			Description:    "Rule permits all traffic from any source to any destination",
			Recommendation: "Restrict source/destination to specific networks",
		}}
	})
}

// BroadAccess flags permit rules mentioning "any" on one side. Rules that
// are any-to-any belong to OverlyPermissive and are skipped here.
func BroadAccess() Check {
	return PerRule(CheckBroadAccess, "Broad access rules", func(_ int, r acl.Rule) []Finding {
		if !r.IsPermit() || isAnyToAny(r) {
			return nil
		}
		if !strings.Contains(r.Source, "any") && !strings.Contains(r.Destination, "any") {
			return nil
		}
		return []Finding{{
			Severity:       SeverityMedium,
			Issue:          "Broad access rule",
			Description:    "Rule allows traffic from/to 'any'",
			Recommendation: "Consider restricting to specific networks",
		}}
	})
}

// ExposedPattern flags rules whose raw line contains "eq <port>" for any
// table entry while the source is "any". Matching is textual, so a rule can
// produce one finding per table entry it happens to contain.
func ExposedPattern(id string, table PortTable) Check {
	entries := table.Clone()
	return PerRule(id, "Risky ports exposed to any source", func(_ int, r acl.Rule) []Finding {
		if r.Source != "any" {
			return nil
		}
		var out []Finding
		for _, p := range entries {
			if !strings.Contains(r.RawLine, p.Pattern()) {
				continue
			}
			out = append(out, Finding{
				Severity:       SeverityMedium,
				Issue:          fmt.Sprintf("Risky port %s exposed", p.Port),
				Description:    p.Warning,
				Recommendation: fmt.Sprintf("Restrict access to port %s", p.Port),
				Port:           p.Port,
			})
		}
		return out
	})
}

// RiskyPorts is ExposedPattern under the standard check ID.
func RiskyPorts(table PortTable) Check {
	return ExposedPattern(CheckRiskyPort, table)
}

// DefaultChecks returns the fixed battery in evaluation order.
func DefaultChecks(table PortTable) []Check {
	return []Check{
		OverlyPermissive(),
		BroadAccess(),
		RiskyPorts(table),
	}
}
