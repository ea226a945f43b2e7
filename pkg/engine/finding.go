package engine

import (
	"fmt"
	"strings"
)

// Severity is the closed three-level urgency scale for findings.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW" // reserved, no default check emits it
)

// Severities lists every valid severity from most to least urgent.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ParseSeverity accepts any casing of HIGH, MEDIUM or LOW.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity: %q", v)
	}
	return s, nil
}

// Finding is one issue detected in a rule. RuleNumber is the 1-based
// position of the offending rule in the evaluated sequence.
type Finding struct {
	Severity       Severity `json:"severity"`
	RuleNumber     int      `json:"rule_number"`
	Issue          string   `json:"issue"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Rule           string   `json:"rule"`
	Check          string   `json:"check"`
	Port           string   `json:"port,omitempty"`
}

// Summary counts findings per severity.
type Summary struct {
	TotalRules    int `json:"total_rules"`
	TotalFindings int `json:"total_findings"`
	High          int `json:"high_severity"`
	Medium        int `json:"medium_severity"`
	Low           int `json:"low_severity"`
}

// Summarize builds a Summary for findings produced from ruleCount rules.
func Summarize(ruleCount int, findings []Finding) Summary {
	s := Summary{TotalRules: ruleCount, TotalFindings: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	return s
}

// HasHigh reports whether any finding is HIGH.
func HasHigh(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// FilterBySeverity returns the findings with severity s, in order.
func FilterBySeverity(findings []Finding, s Severity) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}
