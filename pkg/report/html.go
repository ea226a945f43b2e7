package report

import (
	"html/template"
	"io"
	"strings"

	"github.com/user/aclsec/pkg/engine"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"lower": func(s engine.Severity) string { return strings.ToLower(string(s)) },
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Security Policy Analysis Report</title>
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; }
h1 { color: #333; border-bottom: 3px solid #0d47a1; padding-bottom: 10px; }
.summary { background: #e3f2fd; padding: 20px; border-radius: 5px; margin: 20px 0; display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 15px; }
.summary-item { background: white; padding: 15px; border-radius: 5px; text-align: center; }
.summary-item h3 { margin: 0 0 10px 0; color: #666; font-size: 14px; }
.number { font-size: 32px; font-weight: bold; color: #0d47a1; }
.finding { border-left: 4px solid #ff9800; padding: 15px; margin: 15px 0; background: #fafafa; border-radius: 4px; }
.finding.high { border-left-color: #f44336; background: #ffebee; }
.finding.medium { border-left-color: #ff9800; background: #fff3e0; }
.finding.low { border-left-color: #4caf50; background: #e8f5e9; }
.badge { padding: 5px 12px; border-radius: 3px; color: white; font-weight: bold; font-size: 12px; display: inline-block; }
.high-badge { background: #f44336; }
.medium-badge { background: #ff9800; }
.low-badge { background: #4caf50; }
code { background: #263238; color: #aed581; padding: 10px; display: block; border-radius: 4px; overflow-x: auto; margin: 10px 0; }
.timestamp { color: #666; font-size: 14px; }
.no-findings { background: #e8f5e9; padding: 20px; border-radius: 5px; text-align: center; color: #2e7d32; font-size: 18px; }
</style>
</head>
<body>
<div class="container">
<h1>Security Policy Analysis Report</h1>
<p class="timestamp">Generated: {{.Timestamp.Format "2006-01-02 15:04:05"}}{{if .Source}} &middot; Source: {{.Source}}{{end}}</p>

<div class="summary">
<div class="summary-item"><h3>Total Rules</h3><div class="number">{{.Summary.TotalRules}}</div></div>
<div class="summary-item"><h3>Total Findings</h3><div class="number">{{.Summary.TotalFindings}}</div></div>
<div class="summary-item"><h3>High Severity</h3><div class="number" style="color: #f44336;">{{.Summary.High}}</div></div>
<div class="summary-item"><h3>Medium Severity</h3><div class="number" style="color: #ff9800;">{{.Summary.Medium}}</div></div>
<div class="summary-item"><h3>Low Severity</h3><div class="number" style="color: #4caf50;">{{.Summary.Low}}</div></div>
</div>

<h2>Detailed Findings</h2>
{{if .Findings}}
{{range $i, $f := .Findings}}
<div class="finding {{lower $f.Severity}}">
<span class="badge {{lower $f.Severity}}-badge">{{$f.Severity}}</span>
<h3>Finding #{{inc $i}}: {{$f.Issue}}</h3>
<p><strong>Rule {{$f.RuleNumber}}:</strong></p>
<code>{{$f.Rule}}</code>
<p><strong>Description:</strong> {{$f.Description}}</p>
<p><strong>Recommendation:</strong> {{$f.Recommendation}}</p>
</div>
{{end}}
{{else}}
<div class="no-findings">No security issues found! Configuration looks good.</div>
{{end}}
</div>
</body>
</html>
`))

func WriteHTML(path string, r *Report) error {
	return writeFile(path, func(w io.Writer) error { return RenderHTML(w, r) })
}

func RenderHTML(w io.Writer, r *Report) error {
	return htmlTemplate.Execute(w, r)
}
