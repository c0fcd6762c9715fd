package domain

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindShadowed      Kind = "shadowed"
	KindRedundant     Kind = "redundant"
	KindPermissive    Kind = "permissive"
	KindUnused        Kind = "unused"
	KindUnsafeService Kind = "unsafe_service"
	KindGeneralized   Kind = "generalized"
)

// TagCovered marks a rule that sits under a generalizing rule.
const TagCovered = "covered"

// Kinds lists the finding categories in the order the auditor runs them.
var Kinds = []Kind{
	KindShadowed,
	KindRedundant,
	KindPermissive,
	KindUnused,
	KindUnsafeService,
	KindGeneralized,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown finding kind %q", s)
}

type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "none"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*s = SeverityNone
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

func MaxSeverity(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Related is the rule linkage carried by a finding. The set of
// implementations is closed: ShadowedBy, DuplicateOf, SubsetOf and Covers.
type Related interface {
	related()
}

type ShadowedBy struct {
	Rule Rule
}

type DuplicateOf struct {
	Rule Rule
}

type SubsetOf struct {
	Rule Rule
}

type Covers struct {
	Rules []Rule
}

func (ShadowedBy) related()  {}
func (DuplicateOf) related() {}
func (SubsetOf) related()    {}
func (Covers) related()      {}

// LinkedRule returns the single rule a finding points at, if any.
func LinkedRule(r Related) (Rule, bool) {
	switch v := r.(type) {
	case ShadowedBy:
		return v.Rule, true
	case DuplicateOf:
		return v.Rule, true
	case SubsetOf:
		return v.Rule, true
	}
	return Rule{}, false
}

type Finding struct {
	Kind           Kind
	Rule           Rule
	Related        Related
	Severity       Severity
	Description    string
	Impact         string
	Recommendation string
	Issues         []string
	Service        string
	Fingerprint    string
}

type findingJSON struct {
	Kind           Kind     `json:"kind"`
	Rule           Rule     `json:"rule"`
	Relation       string   `json:"relation,omitempty"`
	RelatedRule    *Rule    `json:"related_rule,omitempty"`
	RelatedRules   []Rule   `json:"related_rules,omitempty"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
	Issues         []string `json:"issues,omitempty"`
	Service        string   `json:"service,omitempty"`
	Fingerprint    string   `json:"fingerprint,omitempty"`
}

func (f Finding) MarshalJSON() ([]byte, error) {
	out := findingJSON{
		Kind:           f.Kind,
		Rule:           f.Rule,
		Severity:       f.Severity,
		Description:    f.Description,
		Impact:         f.Impact,
		Recommendation: f.Recommendation,
		Issues:         f.Issues,
		Service:        f.Service,
		Fingerprint:    f.Fingerprint,
	}
	switch v := f.Related.(type) {
	case ShadowedBy:
		out.Relation = "shadowed_by"
		out.RelatedRule = &v.Rule
	case DuplicateOf:
		out.Relation = "duplicate_of"
		out.RelatedRule = &v.Rule
	case SubsetOf:
		out.Relation = "subset_of"
		out.RelatedRule = &v.Rule
	case Covers:
		out.Relation = "covers"
		out.RelatedRules = v.Rules
	}
	return json.Marshal(out)
}
