package wrappers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/report"
)

const sampleConfig = `hostname edge-fw
access-list OUTSIDE_IN extended permit ip any 0.0.0.0 any
access-list OUTSIDE_IN extended permit tcp any host 10.0.0.5 eq 23
access-list OUTSIDE_IN extended permit tcp 192.168.1.0 255.255.255.0 10.0.0.0
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fw.conf")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	return path
}

func analyzed(t *testing.T) (*engine.Store, *engine.Analysis) {
	t.Helper()
	store := engine.NewStore()
	w := &AnalyzeConfigWrapper{Evaluator: engine.NewEvaluator(), Store: store}
	_, err := w.Execute(context.Background(), map[string]interface{}{"path": writeConfig(t)}, nil)
	require.NoError(t, err)
	a, ok := store.Latest()
	require.True(t, ok)
	return store, a
}

func TestAnalyzeConfig(t *testing.T) {
	store := engine.NewStore()
	w := &AnalyzeConfigWrapper{Evaluator: engine.NewEvaluator(), Store: store}

	var progress []string
	out, err := w.Execute(context.Background(), map[string]interface{}{"path": writeConfig(t)},
		func(s string) { progress = append(progress, s) })
	require.NoError(t, err)

	assert.Contains(t, out, "Rules: 3  Findings: 3 (HIGH 1, MEDIUM 2, LOW 0)")
	assert.Contains(t, out, "[HIGH] Rule 1: Overly permissive rule")
	assert.Contains(t, out, "[MEDIUM] Rule 2: Risky port 23 exposed")
	assert.Len(t, progress, 2)
	assert.Equal(t, 1, store.Len())
}

func TestAnalyzeConfigErrors(t *testing.T) {
	w := &AnalyzeConfigWrapper{Evaluator: engine.NewEvaluator(), Store: engine.NewStore()}

	out, err := w.Execute(context.Background(), map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Error: path argument is required.", out)

	out, err = w.Execute(context.Background(), map[string]interface{}{"path": "/does/not/exist.conf"}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Error: could not read /does/not/exist.conf"))

	out, _ = (&AnalyzeConfigWrapper{}).Execute(context.Background(), nil, nil)
	assert.Equal(t, "Error: analyzer not initialized.", out)
}

func TestShowFindings(t *testing.T) {
	store, a := analyzed(t)
	w := &FindingsViewerWrapper{Store: store}

	out, err := w.Execute(context.Background(), map[string]interface{}{"severity": "high"}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Overly permissive rule")
	assert.NotContains(t, out, "Risky port")

	out, _ = w.Execute(context.Background(), map[string]interface{}{"analysis_id": a.ID, "severity": "LOW"}, nil)
	assert.Contains(t, out, "No matching findings.")

	out, _ = w.Execute(context.Background(), map[string]interface{}{"severity": "critical"}, nil)
	assert.Contains(t, out, "unknown severity")

	out, _ = w.Execute(context.Background(), map[string]interface{}{"analysis_id": "nope"}, nil)
	assert.Equal(t, "Analysis 'nope' not found.", out)

	out, _ = (&FindingsViewerWrapper{Store: engine.NewStore()}).Execute(context.Background(), nil, nil)
	assert.Contains(t, out, "Run AnalyzeFirewallConfig first")
}

func TestGenerateRemediationForRule(t *testing.T) {
	store, _ := analyzed(t)
	w := &RemediationWrapper{Engine: engine.NewRemediationEngine(), Store: store}

	out, err := w.Execute(context.Background(), map[string]interface{}{"rule_number": float64(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "[FIX PLAN]"))
	assert.Contains(t, out, "access-list OUTSIDE_IN extended permit tcp <MGMT_NET> <MGMT_MASK> 10.0.0.5 eq 23")

	out, _ = w.Execute(context.Background(), map[string]interface{}{"rule_number": "3"}, nil)
	assert.Equal(t, "No findings for rule 3.", out)
}

func TestGenerateRemediationTemplates(t *testing.T) {
	w := &RemediationWrapper{Engine: engine.NewRemediationEngine()}

	out, err := w.Execute(context.Background(), map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "- risky-port")
	assert.Contains(t, out, "- overly-permissive")

	out, _ = w.Execute(context.Background(), map[string]interface{}{
		"template_id": "risky-port",
		"variables":   map[string]interface{}{"acl_name": "IN"},
	}, nil)
	assert.Contains(t, out, "Error generating plan: missing required variable")
}

func TestListRiskyPorts(t *testing.T) {
	w := &PortPolicyWrapper{Ports: engine.DefaultPortTable()}

	out, err := w.Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "- 3389: RDP")
	assert.Contains(t, out, "Total: 4 ports")

	out, _ = w.Execute(context.Background(), map[string]interface{}{"port": "23"}, nil)
	assert.Equal(t, "Port 23 (eq 23): Telnet - Unencrypted, should be disabled", out)

	out, _ = w.Execute(context.Background(), map[string]interface{}{"port": "80"}, nil)
	assert.Equal(t, "Port 80 is not in the risky port table.", out)
}

func TestWriteReports(t *testing.T) {
	store, _ := analyzed(t)
	dir := t.TempDir()
	w := &ReportWrapper{Store: store, OutputDir: dir, Formats: []report.Format{report.FormatHTML}}

	out, err := w.Execute(context.Background(), map[string]interface{}{"format": "json"}, nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Reports written:"), out)

	matches, err := filepath.Glob(filepath.Join(dir, "security_report_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	rep, err := report.ReadJSON(matches[0])
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Summary.TotalFindings)

	other := t.TempDir()
	_, err = w.Execute(context.Background(), map[string]interface{}{"output_dir": other}, nil)
	require.NoError(t, err)
	matches, _ = filepath.Glob(filepath.Join(other, "security_report_*.html"))
	assert.Len(t, matches, 1)

	out, _ = w.Execute(context.Background(), map[string]interface{}{"format": "pdf"}, nil)
	assert.True(t, strings.HasPrefix(out, "Error:"), out)
}

func TestIntArg(t *testing.T) {
	n, ok := intArg(map[string]interface{}{"n": float64(4)}, "n")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = intArg(map[string]interface{}{"n": "x"}, "n")
	assert.False(t, ok)

	_, ok = intArg(nil, "n")
	assert.False(t, ok)
}
