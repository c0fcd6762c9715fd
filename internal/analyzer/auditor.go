package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

type detectFunc func(Tables, []match.Traffic) []domain.Finding

type detector struct {
	kind   domain.Kind
	detect detectFunc
}

func defaultDetectors() []detector {
	return []detector{
		{domain.KindShadowed, detectShadowed},
		{domain.KindRedundant, detectRedundant},
		{domain.KindPermissive, detectPermissive},
		{domain.KindUnused, detectUnused},
		{domain.KindUnsafeService, detectUnsafeServices},
		{domain.KindGeneralized, detectGeneralized},
	}
}

// Auditor runs the anomaly detectors over a sorted, normalized rule list.
// It holds no per-audit state and is safe for concurrent use.
type Auditor struct {
	tables    Tables
	parallel  bool
	disabled  map[domain.Kind]bool
	detectors []detector
	now       func() time.Time
}

type Option func(*Auditor)

func WithTables(t Tables) Option {
	return func(a *Auditor) {
		a.tables = t
	}
}

// WithParallel runs the detectors concurrently. The report is identical to
// a sequential run.
func WithParallel(parallel bool) Option {
	return func(a *Auditor) {
		a.parallel = parallel
	}
}

func WithDisabled(kinds ...domain.Kind) Option {
	return func(a *Auditor) {
		for _, k := range kinds {
			a.disabled[k] = true
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Auditor) {
		a.now = now
	}
}

func New(opts ...Option) *Auditor {
	a := &Auditor{
		tables:    DefaultTables(),
		disabled:  make(map[domain.Kind]bool),
		detectors: defaultDetectors(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Auditor) Tables() Tables {
	return a.tables
}

// Audit runs every enabled detector and assembles the report. The input
// slice is not modified.
func Audit(rules []domain.Rule, opts ...Option) *domain.Report {
	return New(opts...).Audit(rules)
}

func (a *Auditor) Audit(rules []domain.Rule) *domain.Report {
	input := make([]domain.Rule, len(rules))
	copy(input, rules)

	compiled := match.CompileAll(input)
	diagnostics := dataQuality(compiled)

	results := make([][]domain.Finding, len(a.detectors))
	failures := make([]*domain.Diagnostic, len(a.detectors))

	run := func(i int) {
		d := a.detectors[i]
		if a.disabled[d.kind] {
			return
		}
		results[i], failures[i] = a.runDetector(d, compiled)
	}

	if a.parallel {
		var g errgroup.Group
		for i := range a.detectors {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range a.detectors {
			run(i)
		}
	}

	findings := make(map[domain.Kind][]domain.Finding, len(domain.Kinds))
	for i, d := range a.detectors {
		if failures[i] != nil {
			diagnostics = append(diagnostics, *failures[i])
			continue
		}
		for j := range results[i] {
			results[i][j].Fingerprint = Fingerprint(results[i][j])
		}
		findings[d.kind] = append(findings[d.kind], results[i]...)
	}

	correlated, counts := correlate(input, findings)

	return &domain.Report{
		ID:             uuid.NewString(),
		GeneratedAt:    a.now().UTC(),
		Rules:          input,
		Findings:       findings,
		Correlated:     correlated,
		SeverityCounts: counts,
		Diagnostics:    diagnostics,
	}
}

func (a *Auditor) runDetector(d detector, rules []match.Traffic) (findings []domain.Finding, failure *domain.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			failure = &domain.Diagnostic{
				Kind:     domain.DiagnosticDetectorFailure,
				Detector: d.kind,
				Message:  fmt.Sprintf("%s detector failed: %v", d.kind, r),
			}
		}
	}()
	return d.detect(a.tables, rules), nil
}

func dataQuality(rules []match.Traffic) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, r := range rules {
		if err := r.Ports.Err(); err != nil {
			out = append(out, domain.Diagnostic{
				Kind:    domain.DiagnosticDataQuality,
				RuleID:  r.Rule.ID,
				Message: fmt.Sprintf("rule %s excluded from comparisons: %v", r.Rule.ID, err),
			})
		}
	}
	return out
}

// Fingerprint identifies a finding by its kind and the rules it links, so the
// same anomaly keeps its identifier across runs.
func Fingerprint(f domain.Finding) string {
	parts := []string{"kind=" + string(f.Kind), "rule=" + f.Rule.ID}
	switch v := f.Related.(type) {
	case domain.ShadowedBy:
		parts = append(parts, "shadowed_by="+v.Rule.ID)
	case domain.DuplicateOf:
		parts = append(parts, "duplicate_of="+v.Rule.ID)
	case domain.SubsetOf:
		parts = append(parts, "subset_of="+v.Rule.ID)
	case domain.Covers:
		for _, r := range v.Rules {
			parts = append(parts, "covers="+r.ID)
		}
	}
	if f.Service != "" {
		parts = append(parts, "service="+f.Service)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
