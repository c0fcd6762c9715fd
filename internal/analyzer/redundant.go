package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

func detectRedundant(_ Tables, rules []match.Traffic) []domain.Finding {
	var findings []domain.Finding
	for i, r := range rules {
		for _, o := range rules[i+1:] {
			if r.Rule.Action != o.Rule.Action {
				continue
			}
			switch {
			case r.Equivalent(o):
				findings = append(findings, domain.Finding{
					Kind:           domain.KindRedundant,
					Rule:           o.Rule,
					Related:        domain.DuplicateOf{Rule: r.Rule},
					Severity:       domain.SeverityLow,
					Description:    fmt.Sprintf("Rule '%s' duplicates '%s'", o.Rule.Name, r.Rule.Name),
					Impact:         "Both rules match exactly the same traffic with the same action",
					Recommendation: fmt.Sprintf("Delete '%s'", o.Rule.Name),
				})
			case o.Within(r) && !r.OverlyGeneric():
				findings = append(findings, domain.Finding{
					Kind:           domain.KindRedundant,
					Rule:           o.Rule,
					Related:        domain.SubsetOf{Rule: r.Rule},
					Severity:       domain.SeverityLow,
					Description:    fmt.Sprintf("Rule '%s' is a subset of '%s'", o.Rule.Name, r.Rule.Name),
					Impact:         fmt.Sprintf("All traffic matched by '%s' is already matched by '%s' with the same action", o.Rule.Name, r.Rule.Name),
					Recommendation: fmt.Sprintf("Delete '%s' unless it is kept for documentation", o.Rule.Name),
				})
			}
		}
	}
	return findings
}
