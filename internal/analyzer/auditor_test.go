package analyzer

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

func samplePolicy() []domain.Rule {
	rules := []domain.Rule{
		newRule(1, "10.0.0.0/8", "*", "22", "tcp", domain.ActionDeny),
		newRule(2, "10.0.0.0/16", "*", "22", "tcp", domain.ActionAllow),
		newRule(3, "192.168.1.0/24", "10.0.0.5", "443", "tcp", domain.ActionAllow),
		newRule(4, "192.168.1.0/24", "10.0.0.5", "443", "tcp", domain.ActionAllow),
		newRule(5, "*", "*", "23", "tcp", domain.ActionAllow),
		newRule(6, "192.168.0.0/16", "10.0.0.0/24", "443,8443", "tcp", domain.ActionAllow),
		newRule(7, "*", "*", "*", "any", domain.ActionAllow),
	}
	rules[5].HitCount = 0
	return rules
}

func TestAuditShadowingScenario(t *testing.T) {
	rules := []domain.Rule{
		newRule(1, "10.0.0.0/8", "*", "22", "tcp", domain.ActionDeny),
		newRule(2, "10.0.0.0/16", "*", "22", "tcp", domain.ActionAllow),
	}

	report := Audit(rules)

	if report.TotalFindings() != 1 {
		t.Fatalf("expected 1 finding, got %d", report.TotalFindings())
	}
	f := mustOne(t, report.Category(domain.KindShadowed), "2")
	if f.Severity != domain.SeverityHigh {
		t.Errorf("expected high severity, got %s", f.Severity)
	}
	if report.SeverityCounts != (domain.SeverityCounts{High: 1}) {
		t.Errorf("unexpected severity counts %+v", report.SeverityCounts)
	}

	shadowed, _ := report.Correlation("2")
	if !reflect.DeepEqual(shadowed.Tags, []string{"shadowed"}) || shadowed.Severity != domain.SeverityHigh {
		t.Errorf("unexpected correlation for rule 2: %+v", shadowed)
	}
	masking, _ := report.Correlation("1")
	if !reflect.DeepEqual(masking.Tags, []string{"shadowed"}) || masking.Severity != domain.SeverityHigh {
		t.Errorf("expected masking rule to be tagged through the link: %+v", masking)
	}
}

func TestAuditDuplicateScenario(t *testing.T) {
	a := newRule(1, "10.0.0.0/24", "192.168.1.10", "8080", "tcp", domain.ActionAllow)
	b := a
	b.ID, b.Name, b.Priority = "2", "Copy", 2

	report := Audit([]domain.Rule{a, b})

	f := mustOne(t, report.Category(domain.KindRedundant), "2")
	if _, ok := f.Related.(domain.DuplicateOf); !ok || f.Severity != domain.SeverityLow {
		t.Errorf("expected low duplicate finding, got %T %s", f.Related, f.Severity)
	}
}

func TestAuditCorrelationCoversEveryRule(t *testing.T) {
	quietRule := newRule(8, "172.16.0.0/12", "10.0.0.9", "9000", "udp", domain.ActionDeny)
	quietRule.Priority = 0
	rules := append([]domain.Rule{quietRule}, samplePolicy()...)

	report := Audit(rules)

	if len(report.Correlated) != len(rules) {
		t.Fatalf("expected %d correlation entries, got %d", len(rules), len(report.Correlated))
	}
	seen := make(map[string]int)
	for _, e := range report.Correlated {
		seen[e.Rule.ID]++
	}
	for _, r := range rules {
		if seen[r.ID] != 1 {
			t.Errorf("rule %s appears %d times in correlation", r.ID, seen[r.ID])
		}
	}

	quiet, ok := report.Correlation("8")
	if !ok {
		t.Fatal("expected rule 8 in correlation")
	}
	if len(quiet.Tags) != 0 || quiet.Severity != domain.SeverityNone {
		t.Errorf("expected rule without findings to have no tags, got %+v", quiet)
	}
}

func TestAuditRuleAfterAllowAllIsShadowed(t *testing.T) {
	rules := append(samplePolicy(), newRule(8, "172.16.0.0/12", "10.0.0.9", "9000", "udp", domain.ActionDeny))

	report := Audit(rules)

	f := mustOne(t, report.Category(domain.KindShadowed), "8")
	if by, ok := f.Related.(domain.ShadowedBy); !ok || by.Rule.ID != "7" {
		t.Errorf("expected rule 8 shadowed by rule 7, got %+v", f.Related)
	}
	entry, _ := report.Correlation("8")
	if !reflect.DeepEqual(entry.Tags, []string{"shadowed"}) || entry.Severity != domain.SeverityHigh {
		t.Errorf("unexpected correlation for rule 8: %+v", entry)
	}
}

func TestAuditCoveredTag(t *testing.T) {
	rules := []domain.Rule{
		newRule(1, "10.1.0.0/16", "192.168.1.10", "443", "tcp", domain.ActionAllow),
		newRule(2, "10.0.0.0/8", "192.168.1.0/24", "443", "tcp", domain.ActionAllow),
	}

	report := Audit(rules)

	covered, _ := report.Correlation("1")
	if !reflect.DeepEqual(covered.Tags, []string{"covered"}) {
		t.Errorf("expected covered tag on rule 1, got %v", covered.Tags)
	}
	if covered.Severity != domain.SeverityMedium {
		t.Errorf("expected medium severity from the generalization, got %s", covered.Severity)
	}
	umbrella, _ := report.Correlation("2")
	if !reflect.DeepEqual(umbrella.Tags, []string{"generalized"}) {
		t.Errorf("expected generalized tag on rule 2, got %v", umbrella.Tags)
	}
}

func TestAuditSeverityCountsMatchFindings(t *testing.T) {
	report := Audit(samplePolicy())

	var counts domain.SeverityCounts
	for _, k := range domain.Kinds {
		for _, f := range report.Category(k) {
			counts.Add(f.Severity)
		}
	}
	if counts != report.SeverityCounts {
		t.Errorf("expected %+v, got %+v", counts, report.SeverityCounts)
	}
	if report.SeverityCounts.Total() != report.TotalFindings() {
		t.Errorf("severity total %d != finding total %d", report.SeverityCounts.Total(), report.TotalFindings())
	}
}

func TestAuditTagsSortedAndUnique(t *testing.T) {
	report := Audit(samplePolicy())

	for _, e := range report.Correlated {
		for i := 1; i < len(e.Tags); i++ {
			if e.Tags[i-1] >= e.Tags[i] {
				t.Errorf("rule %s tags not sorted and unique: %v", e.Rule.ID, e.Tags)
			}
		}
	}
}

func TestAuditParallelMatchesSequential(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	rules := samplePolicy()

	seq := New(WithClock(clock)).Audit(rules)
	par := New(WithClock(clock), WithParallel(true)).Audit(rules)

	if !reflect.DeepEqual(seq.Findings, par.Findings) {
		t.Error("parallel findings differ from sequential findings")
	}
	if !reflect.DeepEqual(seq.Correlated, par.Correlated) {
		t.Error("parallel correlation differs from sequential correlation")
	}
	if seq.SeverityCounts != par.SeverityCounts {
		t.Errorf("severity counts differ: %+v vs %+v", seq.SeverityCounts, par.SeverityCounts)
	}
}

func TestAuditDoesNotMutateInput(t *testing.T) {
	rules := samplePolicy()
	before := make([]domain.Rule, len(rules))
	copy(before, rules)

	Audit(rules, WithParallel(true))

	if !reflect.DeepEqual(rules, before) {
		t.Error("audit modified the input rules")
	}
}

func TestAuditMalformedPort(t *testing.T) {
	rules := []domain.Rule{
		newRule(1, "*", "*", "*", "any", domain.ActionDeny),
		newRule(2, "10.0.0.0/8", "*", "22-abc", "tcp", domain.ActionAllow),
	}

	report := Audit(rules)

	if len(report.Category(domain.KindShadowed)) != 0 {
		t.Error("expected the malformed rule to be excluded from shadowing")
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(report.Diagnostics))
	}
	d := report.Diagnostics[0]
	if d.Kind != domain.DiagnosticDataQuality || d.RuleID != "2" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if !strings.Contains(d.Message, "22-abc") {
		t.Errorf("expected diagnostic to name the expression, got %q", d.Message)
	}
}

func TestAuditDetectorFailureIsIsolated(t *testing.T) {
	a := New()
	for i := range a.detectors {
		if a.detectors[i].kind == domain.KindPermissive {
			a.detectors[i].detect = func(Tables, []match.Traffic) []domain.Finding {
				panic("boom")
			}
		}
	}

	report := a.Audit(samplePolicy())

	if len(report.Category(domain.KindPermissive)) != 0 {
		t.Error("expected the failed detector to contribute nothing")
	}
	if len(report.Category(domain.KindUnsafeService)) == 0 {
		t.Error("expected other detectors to complete")
	}
	var failure *domain.Diagnostic
	for i := range report.Diagnostics {
		if report.Diagnostics[i].Kind == domain.DiagnosticDetectorFailure {
			failure = &report.Diagnostics[i]
		}
	}
	if failure == nil {
		t.Fatal("expected a detector failure diagnostic")
	}
	if failure.Detector != domain.KindPermissive || !strings.Contains(failure.Message, "boom") {
		t.Errorf("unexpected diagnostic %+v", failure)
	}
}

func TestAuditDisabledDetector(t *testing.T) {
	report := Audit(samplePolicy(), WithDisabled(domain.KindUnused))

	if len(report.Category(domain.KindUnused)) != 0 {
		t.Error("expected no unused findings when the detector is disabled")
	}
	if len(report.Category(domain.KindUnsafeService)) == 0 {
		t.Error("expected other detectors to still run")
	}
}

func TestAuditEmptyPolicy(t *testing.T) {
	report := Audit(nil)

	if report.TotalFindings() != 0 {
		t.Errorf("expected no findings, got %d", report.TotalFindings())
	}
	if report.ID == "" {
		t.Error("expected a report id")
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	for _, k := range domain.Kinds {
		if string(out[string(k)]) != "[]" {
			t.Errorf("expected empty list for %s, got %s", k, out[string(k)])
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	first := Audit(samplePolicy())
	second := Audit(samplePolicy())

	for _, k := range domain.Kinds {
		a, b := first.Category(k), second.Category(k)
		if len(a) != len(b) {
			t.Fatalf("%s: finding count changed between runs", k)
		}
		for i := range a {
			if a[i].Fingerprint == "" || a[i].Fingerprint != b[i].Fingerprint {
				t.Errorf("%s: fingerprint not stable: %q vs %q", k, a[i].Fingerprint, b[i].Fingerprint)
			}
		}
	}
	if first.ID == second.ID {
		t.Error("expected each run to get a new id")
	}
}

func TestTablesValidate(t *testing.T) {
	if err := DefaultTables().Validate(); err != nil {
		t.Errorf("default tables should be valid: %v", err)
	}
	bad := Tables{UnsafeServices: []Service{{Port: 70000, Name: "X"}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected out of range port to fail validation")
	}
	unnamed := Tables{UnsafeServices: []Service{{Port: 21}}}
	if err := unnamed.Validate(); err == nil {
		t.Error("expected unnamed service to fail validation")
	}
}
