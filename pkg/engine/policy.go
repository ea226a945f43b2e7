package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/user/aclsec/pkg/logger"
)

// PortRisk pairs a port token with the warning shown when it is exposed.
type PortRisk struct {
	Port    string `yaml:"port" json:"port"`
	Warning string `yaml:"warning" json:"warning"`
}

// Pattern is the raw-line substring that marks the port as matched.
func (p PortRisk) Pattern() string {
	return "eq " + p.Port
}

// PortTable is an ordered port lookup. Order decides finding order for a
// rule matching several ports.
type PortTable []PortRisk

// DefaultPortTable returns the built-in risky ports.
func DefaultPortTable() PortTable {
	return PortTable{
		{Port: "22", Warning: "SSH - Should be restricted to management networks"},
		{Port: "23", Warning: "Telnet - Unencrypted, should be disabled"},
		{Port: "3389", Warning: "RDP - Should be restricted to management networks"},
		{Port: "445", Warning: "SMB - Often exploited, should not be exposed"},
	}
}

// Clone returns a copy that shares nothing with t.
func (t PortTable) Clone() PortTable {
	out := make(PortTable, len(t))
	copy(out, t)
	return out
}

// Lookup returns the entry for port.
func (t PortTable) Lookup(port string) (PortRisk, bool) {
	for _, p := range t {
		if p.Port == port {
			return p, true
		}
	}
	return PortRisk{}, false
}

// Merge appends entries from other. A port already present keeps its
// position and takes the newer warning.
func (t PortTable) Merge(other PortTable) PortTable {
	out := t.Clone()
	for _, p := range other {
		replaced := false
		for i := range out {
			if out[i].Port == p.Port {
				out[i].Warning = p.Warning
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

// PortPolicy is the on-disk form of a risky port override.
type PortPolicy struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Extend      bool      `yaml:"extend"`
	RiskyPorts  PortTable `yaml:"risky_ports"`
}

// Validate rejects entries without a port.
func (p PortPolicy) Validate() error {
	for i, r := range p.RiskyPorts {
		if r.Port == "" {
			return fmt.Errorf("policy %q: entry %d has no port", p.Name, i+1)
		}
	}
	return nil
}

// Apply returns the table that results from layering p on base.
func (p PortPolicy) Apply(base PortTable) PortTable {
	if p.Extend {
		return base.Merge(p.RiskyPorts)
	}
	return PortTable(nil).Merge(p.RiskyPorts)
}

// ReadPortPolicy parses a single policy document.
func ReadPortPolicy(path string) (PortPolicy, error) {
	var p PortPolicy
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = filepath.Base(path)
	}
	return p, p.Validate()
}

// LoadPortPolicy resolves path to a port table. A directory applies every
// *.yaml/*.yml file in lexical order, a file applies just itself. An empty
// path yields the default table.
func LoadPortPolicy(path string) (PortTable, error) {
	table := DefaultPortTable()
	if path == "" {
		return table, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		p, err := ReadPortPolicy(path)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Loaded port policy: %s (%d ports)", p.Name, len(p.RiskyPorts))
		return p.Apply(table), nil
	}
	return LoadPortPolicies(path, table)
}

// LoadPortPolicies layers every policy file in dir onto base.
func LoadPortPolicies(dir string, base PortTable) (PortTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	table := base.Clone()
	for _, name := range names {
		p, err := ReadPortPolicy(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		table = p.Apply(table)
		logger.Debugf("Loaded port policy: %s (%d ports)", p.Name, len(p.RiskyPorts))
	}
	return table, nil
}
