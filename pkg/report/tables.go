package report

// table is one tabular view of a report. The CSV writer emits one file per
// table, the XLSX writer one sheet.
type table struct {
	sheet  string
	suffix string
	header []string
	rows   [][]interface{}
}

func tables(r *Report) []table {
	summary := table{
		sheet:  "Summary",
		suffix: "_summary.csv",
		header: []string{"Metric", "Count"},
		rows: [][]interface{}{
			{"Total Rules Analyzed", r.Summary.TotalRules},
			{"Total Findings", r.Summary.TotalFindings},
			{"High Severity Issues", r.Summary.High},
			{"Medium Severity Issues", r.Summary.Medium},
			{"Low Severity Issues", r.Summary.Low},
		},
	}

	findings := table{
		sheet:  "Findings",
		suffix: "_findings.csv",
		header: []string{"severity", "rule_number", "issue", "description", "recommendation", "rule", "check", "port"},
	}
	for _, f := range r.Findings {
		findings.rows = append(findings.rows, []interface{}{
			string(f.Severity), f.RuleNumber, f.Issue, f.Description, f.Recommendation, f.Rule, f.Check, f.Port,
		})
	}

	rules := table{
		sheet:  "All Rules",
		suffix: "_rules.csv",
		header: []string{"acl_name", "action", "protocol", "source", "destination", "raw_line"},
	}
	for _, rule := range r.RulesAnalyzed {
		rules.rows = append(rules.rows, []interface{}{
			rule.ACLName, rule.Action, rule.Protocol, rule.Source, rule.Destination, rule.RawLine,
		})
	}

	return []table{summary, findings, rules}
}
