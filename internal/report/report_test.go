package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/fwaudit/internal/analyzer"
	"github.com/eleven-am/fwaudit/internal/domain"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func rule(id, name, src, dst, port string, action domain.Action, priority, hits int) domain.Rule {
	return domain.Rule{
		ID: id, Name: name, Source: src, Destination: dst, Port: port,
		Protocol: "tcp", Action: action, Priority: priority, HitCount: hits,
	}
}

func sampleReport() *domain.Report {
	rules := []domain.Rule{
		rule("1", "Block SSH from corp", "10.0.0.0/8", "*", "22", domain.ActionDeny, 1, 40),
		rule("2", "Admin SSH", "10.1.0.0/16", "*", "22", domain.ActionAllow, 2, 0),
		rule("3", "Web <public>", "*", "192.168.1.10", "80", domain.ActionAllow, 3, 5),
	}
	return analyzer.New(analyzer.WithClock(func() time.Time { return fixedTime })).Audit(rules)
}

func TestTitleCoversEveryKind(t *testing.T) {
	for _, k := range domain.Kinds {
		assert.NotEqual(t, string(k), Title(k), "kind %s has no title", k)
	}
}

func TestRelatedText(t *testing.T) {
	a := domain.Rule{ID: "1", Name: "Allow web"}
	b := domain.Rule{ID: "2"}

	assert.Equal(t, "Shadowed by Allow web [1]", RelatedText(domain.Finding{Related: domain.ShadowedBy{Rule: a}}))
	assert.Equal(t, "Duplicate of Allow web [1]", RelatedText(domain.Finding{Related: domain.DuplicateOf{Rule: a}}))
	assert.Equal(t, "Subset of 2", RelatedText(domain.Finding{Related: domain.SubsetOf{Rule: b}}))
	assert.Equal(t, "Covers Allow web [1], 2", RelatedText(domain.Finding{Related: domain.Covers{Rules: []domain.Rule{a, b}}}))
	assert.Empty(t, RelatedText(domain.Finding{}))
}

func TestRenderHTML(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer

	require.NoError(t, RenderHTML(&buf, r))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Firewall Audit Report")
	assert.Contains(t, out, "2026-03-14 09:26:53 UTC")
	assert.Contains(t, out, "Shadowed by Block SSH from corp [1]")
	assert.Contains(t, out, "Web &lt;public&gt;", "rule names are escaped")
	assert.NotContains(t, out, "Web <public>")
	assert.Contains(t, out, r.ID)
}

func TestRenderHTMLClean(t *testing.T) {
	r := &domain.Report{GeneratedAt: fixedTime, Findings: map[domain.Kind][]domain.Finding{}}
	var buf bytes.Buffer

	require.NoError(t, RenderHTML(&buf, r))
	assert.Contains(t, buf.String(), "No anomalies detected")
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderPDF(&buf, sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderPDFManyRules(t *testing.T) {
	var rules []domain.Rule
	for i := 1; i <= 120; i++ {
		id := fmt.Sprint(i)
		rules = append(rules, rule(id, "Rule with a rather long descriptive name "+id, "10.0.0.0/8", "*", id, domain.ActionAllow, i, 1))
	}
	r := analyzer.New(analyzer.WithClock(func() time.Time { return fixedTime })).Audit(rules)
	var buf bytes.Buffer

	require.NoError(t, RenderPDF(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, k := range domain.Kinds {
		assert.Contains(t, decoded, string(k))
	}
	assert.Contains(t, decoded, "correlated")
	assert.Contains(t, decoded, "severity_counts")
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"html", "PDF", " both ", "json"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestWriteBoth(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")

	paths, err := Write(dir, FormatBoth, sampleReport())
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "firewall_audit_20260314_092653.html"), paths[0])
	assert.Equal(t, filepath.Join(dir, "firewall_audit_20260314_092653.pdf"), paths[1])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestWriteJSON(t *testing.T) {
	paths, err := Write(t.TempDir(), FormatJSON, sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, ".json", filepath.Ext(paths[0]))
}

func TestPrintSummaryVerboseTruncates(t *testing.T) {
	var findings []domain.Finding
	for i := 1; i <= 7; i++ {
		findings = append(findings, domain.Finding{
			Kind:        domain.KindUnused,
			Rule:        domain.Rule{ID: fmt.Sprint(i)},
			Severity:    domain.SeverityLow,
			Description: fmt.Sprintf("Rule %d has never matched traffic", i),
		})
	}
	r := &domain.Report{
		Findings:       map[domain.Kind][]domain.Finding{domain.KindUnused: findings},
		SeverityCounts: domain.SeverityCounts{Low: 7},
	}
	var buf bytes.Buffer

	PrintSummary(&buf, r, true)
	out := buf.String()

	assert.Contains(t, out, "Unused Rules: 7")
	assert.Contains(t, out, "Total: 7 finding(s)")
	assert.Contains(t, out, "Rule 5 has never matched traffic")
	assert.NotContains(t, out, "Rule 6 has never matched traffic")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "Anomalies were detected")
}

func TestPrintSummaryQuietClean(t *testing.T) {
	r := &domain.Report{Findings: map[domain.Kind][]domain.Finding{}}
	var buf bytes.Buffer

	PrintSummary(&buf, r, false)
	out := buf.String()

	assert.Contains(t, out, "Total: 0 finding(s)")
	assert.Contains(t, out, "No anomalies detected")
	assert.NotContains(t, out, "Details:")
}

func TestPrintSummaryDiagnostics(t *testing.T) {
	r := &domain.Report{
		Findings: map[domain.Kind][]domain.Finding{},
		Diagnostics: []domain.Diagnostic{
			{Kind: domain.DiagnosticDataQuality, RuleID: "9", Message: "bad port"},
		},
	}
	var buf bytes.Buffer

	PrintSummary(&buf, r, false)
	assert.Contains(t, buf.String(), "rule 9: bad port")
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	PrintRules(&buf, []domain.Rule{rule("1", "Allow web", "*", "10.0.0.1", "443", domain.ActionAllow, 1, 0)})

	assert.Contains(t, buf.String(), "1. Allow web - * -> 10.0.0.1 [allow]")
}
