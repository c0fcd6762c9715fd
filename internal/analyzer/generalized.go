package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

func detectGeneralized(_ Tables, rules []match.Traffic) []domain.Finding {
	var findings []domain.Finding
	for i, u := range rules {
		var covered []domain.Rule
		for j, c := range rules {
			if i == j || c.Rule.Action != u.Rule.Action {
				continue
			}
			if c.Within(u) && !u.Within(c) {
				covered = append(covered, c.Rule)
			}
		}
		if len(covered) == 0 {
			continue
		}

		severity := domain.SeverityMedium
		if u.OverlyGeneric() {
			severity = domain.SeverityHigh
		}
		findings = append(findings, domain.Finding{
			Kind:           domain.KindGeneralized,
			Rule:           u.Rule,
			Related:        domain.Covers{Rules: covered},
			Severity:       severity,
			Description:    fmt.Sprintf("Rule '%s' generalizes %d more specific rule(s)", u.Rule.Name, len(covered)),
			Impact:         "The specific rules no longer define the policy on their own; changing the broad rule silently changes their scope",
			Recommendation: fmt.Sprintf("Check whether '%s' should be narrowed or the covered rules removed", u.Rule.Name),
		})
	}
	return findings
}
