package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

// detectShadowed reports each rule whose traffic is fully matched by an
// earlier rule with a lower priority value and the opposite action. Only the
// first such rule in list order is reported.
func detectShadowed(_ Tables, rules []match.Traffic) []domain.Finding {
	var findings []domain.Finding
	for i, r := range rules {
		for _, o := range rules[:i] {
			if o.Rule.Priority >= r.Rule.Priority || o.Rule.Action == r.Rule.Action {
				continue
			}
			if !r.Within(o) {
				continue
			}
			findings = append(findings, domain.Finding{
				Kind:     domain.KindShadowed,
				Rule:     r.Rule,
				Related:  domain.ShadowedBy{Rule: o.Rule},
				Severity: domain.SeverityHigh,
				Description: fmt.Sprintf("Rule '%s' (priority %d) is shadowed by '%s' (priority %d)",
					r.Rule.Name, r.Rule.Priority, o.Rule.Name, o.Rule.Priority),
				Impact: fmt.Sprintf("Traffic matched by '%s' is always handled by '%s' first, so the %s action never applies",
					r.Rule.Name, o.Rule.Name, r.Rule.Action),
				Recommendation: "Remove the shadowed rule or move it above the rule that masks it",
			})
			break
		}
	}
	return findings
}
