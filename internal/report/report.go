package report

import (
	"fmt"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

var titles = map[domain.Kind]string{
	domain.KindShadowed:      "Shadowed Rules",
	domain.KindRedundant:     "Redundant Rules",
	domain.KindPermissive:    "Overly Permissive Rules",
	domain.KindUnused:        "Unused Rules",
	domain.KindUnsafeService: "Unsafe Services",
	domain.KindGeneralized:   "Generalizing Rules",
}

func Title(k domain.Kind) string {
	if t, ok := titles[k]; ok {
		return t
	}
	return string(k)
}

// RelatedText describes the rules a finding points at, or "" when it has none.
func RelatedText(f domain.Finding) string {
	switch v := f.Related.(type) {
	case domain.ShadowedBy:
		return "Shadowed by " + ruleLabel(v.Rule)
	case domain.DuplicateOf:
		return "Duplicate of " + ruleLabel(v.Rule)
	case domain.SubsetOf:
		return "Subset of " + ruleLabel(v.Rule)
	case domain.Covers:
		labels := make([]string, 0, len(v.Rules))
		for _, r := range v.Rules {
			labels = append(labels, ruleLabel(r))
		}
		return "Covers " + strings.Join(labels, ", ")
	}
	return ""
}

func ruleLabel(r domain.Rule) string {
	if r.Name == "" {
		return r.ID
	}
	return fmt.Sprintf("%s [%s]", r.Name, r.ID)
}

type section struct {
	Kind     domain.Kind
	Title    string
	Findings []domain.Finding
}

// sections lists the non-empty categories in report order.
func sections(r *domain.Report) []section {
	var out []section
	for _, k := range domain.Kinds {
		if fs := r.Category(k); len(fs) > 0 {
			out = append(out, section{Kind: k, Title: Title(k), Findings: fs})
		}
	}
	return out
}
