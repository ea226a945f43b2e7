package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/user/aclsec/pkg/engine"
)

const rulePreviewWidth = 80

var severityMarker = map[engine.Severity]string{
	engine.SeverityHigh:   "!!!",
	engine.SeverityMedium: "!! ",
	engine.SeverityLow:    "!  ",
}

// WriteSummary prints the console summary with up to top findings listed.
func WriteSummary(w io.Writer, r *Report, top int) {
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	fmt.Fprintf(w, "\n%s\nANALYSIS SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "\nTotal Rules Analyzed: %d\n", r.Summary.TotalRules)
	fmt.Fprintf(w, "Total Security Findings: %d\n", r.Summary.TotalFindings)
	fmt.Fprintf(w, "\nSeverity Breakdown:\n")
	fmt.Fprintf(w, "  HIGH:   %d\n", r.Summary.High)
	fmt.Fprintf(w, "  MEDIUM: %d\n", r.Summary.Medium)
	fmt.Fprintf(w, "  LOW:    %d\n", r.Summary.Low)

	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "\nNo security issues found! Configuration looks good.\n")
		fmt.Fprintf(w, "\n%s\n", rule)
		return
	}

	fmt.Fprintf(w, "\n%s\nTOP ISSUES:\n%s\n", thin, thin)
	shown := r.Findings
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}
	for i, f := range shown {
		fmt.Fprintf(w, "\n%d. %s [%s] %s\n", i+1, severityMarker[f.Severity], f.Severity, f.Issue)
		fmt.Fprintf(w, "   Rule %d: %s\n", f.RuleNumber, Truncate(f.Rule, rulePreviewWidth))
		fmt.Fprintf(w, "   Fix: %s\n", f.Recommendation)
	}
	if more := len(r.Findings) - len(shown); more > 0 {
		fmt.Fprintf(w, "\n... and %d more issues\n", more)
	}
	fmt.Fprintf(w, "\n%s\n", rule)
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
