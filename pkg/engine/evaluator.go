package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/user/aclsec/pkg/acl"
)

// Evaluator runs a fixed, ordered battery of checks over rules.
type Evaluator struct {
	checks []Check
}

// NewEvaluator uses checks in the given order; with none it uses
// DefaultChecks over the default port table.
func NewEvaluator(checks ...Check) *Evaluator {
	if len(checks) == 0 {
		checks = DefaultChecks(DefaultPortTable())
	}
	return &Evaluator{checks: append([]Check(nil), checks...)}
}

// Checks returns the evaluation order.
func (e *Evaluator) Checks() []Check {
	return append([]Check(nil), e.checks...)
}

// Evaluate returns every check's findings, all of one check before the
// next, each check in rule order. Never nil.
func (e *Evaluator) Evaluate(rules []acl.Rule) []Finding {
	findings := make([]Finding, 0)
	for _, c := range e.checks {
		findings = append(findings, c.Run(rules)...)
	}
	return findings
}

// EvaluateConcurrent runs the checks in parallel. The result is identical
// to Evaluate.
func (e *Evaluator) EvaluateConcurrent(ctx context.Context, rules []acl.Rule) ([]Finding, error) {
	results := make([][]Finding, len(e.checks))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range e.checks {
		i, c := i, c
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = c.Run(rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	findings := make([]Finding, 0)
	for _, r := range results {
		findings = append(findings, r...)
	}
	return findings, nil
}
