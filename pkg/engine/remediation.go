package engine

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/user/aclsec/pkg/acl"
	"github.com/user/aclsec/pkg/logger"
)

//go:embed templates/*.yaml
var builtinTemplates embed.FS

// RemediationTemplate represents a remediation script template
type RemediationTemplate struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	Issue             string   `yaml:"issue" json:"issue"`
	Risk              string   `yaml:"risk" json:"risk"`
	Standard          string   `yaml:"standard" json:"standard"`
	Description       string   `yaml:"description" json:"description"`
	FixCommand        string   `yaml:"fix_command" json:"fix_command"`
	ValidationCommand string   `yaml:"validation_command" json:"validation_command"`
	RollbackCommand   string   `yaml:"rollback_command" json:"rollback_command"`
	Variables         []string `yaml:"variables" json:"variables"`
}

// RemediationEngine manages remediation templates keyed by check ID
type RemediationEngine struct {
	Templates map[string]RemediationTemplate
}

// NewRemediationEngine creates an engine preloaded with the built-in
// templates.
func NewRemediationEngine() *RemediationEngine {
	e := &RemediationEngine{
		Templates: make(map[string]RemediationTemplate),
	}
	if err := e.loadFS(builtinTemplates, "templates"); err != nil {
		// embedded files are fixed at build time
		panic(err)
	}
	return e
}

func (e *RemediationEngine) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		var t RemediationTemplate
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		if t.ID == "" {
			return fmt.Errorf("template %s has no id", entry.Name())
		}
		e.Templates[t.ID] = t
		logger.Debugf("Loaded remediation template: %s", t.ID)
	}
	return nil
}

// LoadTemplates reads YAML templates from a directory. Templates replace
// built-ins with the same ID.
func (e *RemediationEngine) LoadTemplates(dir string) error {
	return e.loadFS(os.DirFS(dir), ".")
}

// ListTemplates returns "id: name" lines sorted by ID
func (e *RemediationEngine) ListTemplates() []string {
	list := make([]string, 0, len(e.Templates))
	for _, t := range e.Templates {
		list = append(list, fmt.Sprintf("%s: %s", t.ID, t.Name))
	}
	sort.Strings(list)
	return list
}

// GeneratePlan creates a remediation plan from a template and variables
func (e *RemediationEngine) GeneratePlan(id string, vars map[string]string) (string, error) {
	tmpl, ok := e.Templates[id]
	if !ok {
		return "", fmt.Errorf("template not found: %s", id)
	}

	for _, requiredVar := range tmpl.Variables {
		if _, exists := vars[requiredVar]; !exists {
			return "", fmt.Errorf("missing required variable: %s", requiredVar)
		}
	}

	fixCmd, err := renderString("fix", tmpl.FixCommand, vars)
	if err != nil {
		return "", err
	}
	validateCmd, err := renderString("validate", tmpl.ValidationCommand, vars)
	if err != nil {
		return "", err
	}
	rollbackCmd, err := renderString("rollback", tmpl.RollbackCommand, vars)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("[FIX PLAN]\n")
	fmt.Fprintf(&sb, "Issue: %s\n", tmpl.Issue)
	fmt.Fprintf(&sb, "Risk: %s\n", tmpl.Risk)
	fmt.Fprintf(&sb, "Standard: %s\n\n", tmpl.Standard)

	sb.WriteString("Suggested Fix:\n")
	sb.WriteString(strings.TrimRight(fixCmd, "\n") + "\n\n")

	sb.WriteString("Validation:\n")
	sb.WriteString(strings.TrimRight(validateCmd, "\n") + "\n\n")

	sb.WriteString("Rollback:\n")
	sb.WriteString(strings.TrimRight(rollbackCmd, "\n") + "\n")

	return sb.String(), nil
}

// VariablesFor derives template variables from a finding and the rule it
// points at.
func VariablesFor(f Finding, rules []acl.Rule) (map[string]string, error) {
	if f.RuleNumber < 1 || f.RuleNumber > len(rules) {
		return nil, fmt.Errorf("rule number %d out of range (1-%d)", f.RuleNumber, len(rules))
	}
	r := rules[f.RuleNumber-1]
	return map[string]string{
		"acl_name":    r.ACLName,
		"action":      r.Action,
		"protocol":    r.Protocol,
		"source":      r.Source,
		"destination": r.Destination,
		"raw_line":    r.RawLine,
		"port":        f.Port,
		"rule_number": strconv.Itoa(f.RuleNumber),
	}, nil
}

// PlanFor renders the template registered for the finding's check.
func (e *RemediationEngine) PlanFor(f Finding, rules []acl.Rule) (string, error) {
	vars, err := VariablesFor(f, rules)
	if err != nil {
		return "", err
	}
	return e.GeneratePlan(f.Check, vars)
}

func renderString(name, tmplStr string, vars map[string]string) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
