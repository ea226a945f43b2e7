package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aclsec/pkg/acl"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultPortTableOrder(t *testing.T) {
	var ports []string
	for _, p := range DefaultPortTable() {
		ports = append(ports, p.Port)
	}
	assert.Equal(t, []string{"22", "23", "3389", "445"}, ports)
}

func TestLoadPortPolicyReplace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ftp.yaml", `
name: ftp-only
risky_ports:
  - port: "21"
    warning: "FTP - Cleartext credentials"
`)
	table, err := LoadPortPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, PortTable{{Port: "21", Warning: "FTP - Cleartext credentials"}}, table)

	rules := acl.ParseString("access-list A extended permit tcp any host 10.0.0.1 eq 21\naccess-list A extended permit tcp any host 10.0.0.1 eq 22\n")
	findings := RiskyPorts(table).Run(rules)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].RuleNumber)
	assert.Equal(t, "Risky port 21 exposed", findings[0].Issue)
}

func TestLoadPortPolicyExtend(t *testing.T) {
	path := writeFile(t, t.TempDir(), "extra.yml", `
extend: true
risky_ports:
  - port: "22"
    warning: "SSH - jump hosts only"
  - port: "1433"
    warning: "MSSQL - Database should not be exposed"
`)
	table, err := LoadPortPolicy(path)
	require.NoError(t, err)
	require.Len(t, table, 5)
	assert.Equal(t, PortRisk{Port: "22", Warning: "SSH - jump hosts only"}, table[0])
	assert.Equal(t, "1433", table[4].Port)

	p, ok := table.Lookup("3389")
	assert.True(t, ok)
	assert.Contains(t, p.Warning, "RDP")
}

func TestLoadPortPolicyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-base.yaml", "risky_ports:\n  - port: \"21\"\n    warning: ftp\n")
	writeFile(t, dir, "20-more.yaml", "extend: true\nrisky_ports:\n  - port: \"5900\"\n    warning: vnc\n")
	writeFile(t, dir, "notes.txt", "ignored")

	table, err := LoadPortPolicy(dir)
	require.NoError(t, err)
	assert.Equal(t, PortTable{{Port: "21", Warning: "ftp"}, {Port: "5900", Warning: "vnc"}}, table)
}

func TestLoadPortPolicyErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPortPolicy(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "risky_ports: [\n")
	_, err = LoadPortPolicy(bad)
	assert.Error(t, err)

	noPort := writeFile(t, dir, "noport.yaml", "risky_ports:\n  - warning: oops\n")
	_, err = LoadPortPolicy(noPort)
	assert.Error(t, err)
}

func TestLoadPortPolicyEmptyPathIsDefault(t *testing.T) {
	table, err := LoadPortPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPortTable(), table)
}

func TestRiskyPortsCopiesTable(t *testing.T) {
	table := DefaultPortTable()
	check := RiskyPorts(table)
	table[0].Port = "9999"

	rules := acl.ParseString("access-list A extended permit tcp any host 1.1.1.1 eq 22")
	assert.Len(t, check.Run(rules), 1)
}
