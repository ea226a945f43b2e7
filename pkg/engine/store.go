package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/aclsec/pkg/acl"
)

// Analysis is one evaluated configuration.
type Analysis struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	Rules     []acl.Rule `json:"rules"`
	Findings  []Finding  `json:"findings"`
}

// NewAnalysis stamps rules and findings with a fresh ID.
func NewAnalysis(source string, rules []acl.Rule, findings []Finding) *Analysis {
	return &Analysis{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Rules:     rules,
		Findings:  findings,
	}
}

// Summary counts the analysis findings.
func (a *Analysis) Summary() Summary {
	return Summarize(len(a.Rules), a.Findings)
}

// Analyze parses path and evaluates it with ev.
func Analyze(path string, ev *Evaluator) (*Analysis, error) {
	rules, err := acl.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewAnalysis(path, rules, ev.Evaluate(rules)), nil
}

// Store holds analyses in insertion order and is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	analyses []*Analysis
	byID     map[string]*Analysis
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Analysis)}
}

// Add records a. Re-adding an ID replaces the stored analysis in place.
func (s *Store) Add(a *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[a.ID]; ok {
		for i, existing := range s.analyses {
			if existing.ID == a.ID {
				s.analyses[i] = a
			}
		}
	} else {
		s.analyses = append(s.analyses, a)
	}
	s.byID[a.ID] = a
}

// Latest returns the most recently added analysis.
func (s *Store) Latest() (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.analyses) == 0 {
		return nil, false
	}
	return s.analyses[len(s.analyses)-1], true
}

func (s *Store) Get(id string) (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	return a, ok
}

// List returns analyses newest first.
func (s *Store) List() []*Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Analysis, 0, len(s.analyses))
	for i := len(s.analyses) - 1; i >= 0; i-- {
		out = append(out, s.analyses[i])
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}

// Report returns a text summary of a, optionally limited to one severity.
func Report(a *Analysis, only Severity) string {
	findings := a.Findings
	if only != "" {
		findings = FilterBySeverity(findings, only)
	}
	sum := a.Summary()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis %s of %s\n", a.ID, a.Source)
	fmt.Fprintf(&sb, "Rules: %d  Findings: %d (HIGH %d, MEDIUM %d, LOW %d)\n",
		sum.TotalRules, sum.TotalFindings, sum.High, sum.Medium, sum.Low)
	sb.WriteString("--------------------------------------------------\n")

	if len(findings) == 0 {
		sb.WriteString("No matching findings.\n")
		return sb.String()
	}
	for _, f := range findings {
		fmt.Fprintf(&sb, "[%s] Rule %d: %s\n", f.Severity, f.RuleNumber, f.Issue)
		fmt.Fprintf(&sb, "  Rule: %s\n", f.Rule)
		fmt.Fprintf(&sb, "  Description: %s\n", f.Description)
		fmt.Fprintf(&sb, "  Fix: %s\n\n", f.Recommendation)
	}
	return sb.String()
}
