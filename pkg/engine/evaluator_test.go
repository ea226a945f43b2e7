package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aclsec/pkg/acl"
)

func rule(action, source, destination, raw string) acl.Rule {
	return acl.Rule{ACLName: "TEST", Action: action, Protocol: "tcp", Source: source, Destination: destination, RawLine: raw}
}

func TestAnyToAnyIsHighAndNotBroad(t *testing.T) {
	rules := []acl.Rule{{
		ACLName: "TEST", Action: "permit", Protocol: "ip", Source: "any", Destination: "any",
		RawLine: "access-list TEST extended permit ip any any",
	}}

	high := OverlyPermissive().Run(rules)
	require.Len(t, high, 1)
	assert.Equal(t, SeverityHigh, high[0].Severity)
	assert.Equal(t, "Overly permissive rule", high[0].Issue)
	assert.Equal(t, 1, high[0].RuleNumber)
	assert.Equal(t, CheckOverlyPermissive, high[0].Check)

	assert.Empty(t, BroadAccess().Run(rules))

	findings := NewEvaluator().Evaluate(rules)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
}

func TestRiskyPortAndBroadAccessAreIndependent(t *testing.T) {
	rules := []acl.Rule{rule("permit", "any", "host 192.168.1.1",
		"access-list TEST extended permit tcp any host 192.168.1.1 eq 22")}

	ports := RiskyPorts(DefaultPortTable()).Run(rules)
	require.Len(t, ports, 1)
	assert.Equal(t, SeverityMedium, ports[0].Severity)
	assert.Equal(t, "Risky port 22 exposed", ports[0].Issue)
	assert.Equal(t, "SSH - Should be restricted to management networks", ports[0].Description)
	assert.Equal(t, "Restrict access to port 22", ports[0].Recommendation)
	assert.Equal(t, "22", ports[0].Port)

	broad := BroadAccess().Run(rules)
	require.Len(t, broad, 1)
	assert.Equal(t, "Broad access rule", broad[0].Issue)

	findings := NewEvaluator().Evaluate(rules)
	require.Len(t, findings, 2)
	assert.Equal(t, CheckBroadAccess, findings[0].Check)
	assert.Equal(t, CheckRiskyPort, findings[1].Check)
}

func TestCleanRuleHasNoFindings(t *testing.T) {
	rules := []acl.Rule{rule("permit", "192.168.1.0", "10.0.0.0",
		"access-list TEST extended permit tcp 192.168.1.0 255.255.255.0 10.0.0.0 eq 443")}
	findings := NewEvaluator().Evaluate(rules)
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestEvaluateEmpty(t *testing.T) {
	findings := NewEvaluator().Evaluate(nil)
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestDenyRulesOnlyHitRiskyPorts(t *testing.T) {
	rules := []acl.Rule{rule("deny", "any", "any", "access-list TEST extended deny tcp any any eq 23")}
	// risky-port does not look at the action
	findings := NewEvaluator().Evaluate(rules)
	require.Len(t, findings, 1)
	assert.Equal(t, "Risky port 23 exposed", findings[0].Issue)
}

func TestBroadAccessMatchesSubstring(t *testing.T) {
	rules := []acl.Rule{
		rule("permit", "10.0.0.1", "any4", "access-list T extended permit tcp host 10.0.0.1 any4"),
		rule("permit", "any", "10.0.0.1", "access-list T extended permit tcp any 10.0.0.1"),
		rule("permit", "10.0.0.1", "10.0.0.2", "access-list T extended permit tcp 10.0.0.1 10.0.0.2"),
	}
	broad := BroadAccess().Run(rules)
	require.Len(t, broad, 2)
	assert.Equal(t, 1, broad[0].RuleNumber)
	assert.Equal(t, 2, broad[1].RuleNumber)
}

func TestRiskyPortSubstringCanMatchSeveralPorts(t *testing.T) {
	// "eq 22" also occurs inside "eq 2233"; textual matching is kept
	rules := []acl.Rule{rule("permit", "any", "10.0.0.1",
		"access-list T extended permit tcp any 10.0.0.1 eq 2233 eq 445")}
	findings := RiskyPorts(DefaultPortTable()).Run(rules)
	require.Len(t, findings, 2)
	assert.Equal(t, "22", findings[0].Port)
	assert.Equal(t, "445", findings[1].Port)
}

func TestRiskyPortRequiresAnySource(t *testing.T) {
	rules := []acl.Rule{rule("permit", "10.1.1.0", "any", "access-list T extended permit tcp 10.1.1.0 255.255.255.0 any eq 3389")}
	assert.Empty(t, RiskyPorts(DefaultPortTable()).Run(rules))
}

func TestFindingOrderIsCheckThenRule(t *testing.T) {
	rules := acl.ParseString(`
access-list A extended permit tcp any host 10.0.0.1 eq 22
access-list A extended permit ip any 0.0.0.0 any
access-list A extended permit tcp any host 10.0.0.2 eq 3389
access-list A extended permit ip any 0.0.0.0 any
`)
	findings := NewEvaluator().Evaluate(rules)
	var got []string
	for _, f := range findings {
		got = append(got, f.Check+"#"+string(rune('0'+f.RuleNumber)))
	}
	assert.Equal(t, []string{
		"overly-permissive#2",
		"overly-permissive#4",
		"broad-access#1",
		"broad-access#3",
		"risky-port#1",
		"risky-port#3",
	}, got)
}

func TestRuleNumbersResolveToRules(t *testing.T) {
	rules := acl.ParseString(`
access-list OUTSIDE_IN extended permit tcp any host 192.168.1.10 eq 80
access-list OUTSIDE_IN extended permit tcp any any eq 22
access-list OUTSIDE_IN extended permit tcp any host 192.168.1.20 eq 445
access-list INSIDE_OUT extended permit ip 192.168.1.0 255.255.255.0 any
access-list INSIDE_OUT extended deny ip any any
access-list BROKEN extended
`)
	findings := NewEvaluator().Evaluate(rules)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		require.GreaterOrEqual(t, f.RuleNumber, 1)
		require.LessOrEqual(t, f.RuleNumber, len(rules))
		assert.Equal(t, rules[f.RuleNumber-1].RawLine, f.Rule)
		assert.True(t, f.Severity.Valid())
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	rules := acl.ParseString("access-list A extended permit tcp any any eq 22\naccess-list A extended permit tcp any host 1.1.1.1 eq 23\n")
	snapshot := append([]acl.Rule(nil), rules...)
	ev := NewEvaluator()
	first := ev.Evaluate(rules)
	second := ev.Evaluate(rules)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, rules)
}

func TestEvaluateConcurrentMatchesSequential(t *testing.T) {
	rules := acl.ParseString(`
access-list A extended permit tcp any host 10.0.0.1 eq 22
access-list A extended permit ip any any
access-list A extended permit tcp any any eq 445
access-list A extended permit tcp 10.0.0.0 255.0.0.0 any eq 23
`)
	ev := NewEvaluator()
	got, err := ev.EvaluateConcurrent(context.Background(), rules)
	require.NoError(t, err)
	assert.Equal(t, ev.Evaluate(rules), got)

	empty, err := ev.EvaluateConcurrent(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestEvaluateConcurrentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEvaluator().EvaluateConcurrent(ctx, acl.ParseString("access-list A extended permit ip any any"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomCheckOrder(t *testing.T) {
	rules := acl.ParseString("access-list A extended permit tcp any 0.0.0.0 any eq 22")
	ev := NewEvaluator(RiskyPorts(DefaultPortTable()), OverlyPermissive())
	findings := ev.Evaluate(rules)
	require.Len(t, findings, 2)
	assert.Equal(t, CheckRiskyPort, findings[0].Check)
	assert.Equal(t, CheckOverlyPermissive, findings[1].Check)
	assert.Len(t, ev.Checks(), 2)
}

func TestSummarize(t *testing.T) {
	findings := []Finding{
		{Severity: SeverityHigh}, {Severity: SeverityMedium}, {Severity: SeverityMedium}, {Severity: SeverityLow},
	}
	assert.Equal(t, Summary{TotalRules: 3, TotalFindings: 4, High: 1, Medium: 2, Low: 1}, Summarize(3, findings))
	assert.True(t, HasHigh(findings))
	assert.False(t, HasHigh(findings[1:]))
	assert.Len(t, FilterBySeverity(findings, SeverityMedium), 2)
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity(" low ")
	require.NoError(t, err)
	assert.Equal(t, SeverityLow, s)

	_, err = ParseSeverity("critical")
	assert.Error(t, err)
}

func TestTwoTokenAnyAnyIsBroadAccess(t *testing.T) {
	// slot 7 is past the end of "permit ip any any", so the destination is empty
	rules := acl.ParseString("access-list A extended permit ip any any")
	require.Len(t, rules, 1)
	assert.Equal(t, "", rules[0].Destination)

	findings := NewEvaluator().Evaluate(rules)
	require.Len(t, findings, 1)
	assert.Equal(t, CheckBroadAccess, findings[0].Check)
}
