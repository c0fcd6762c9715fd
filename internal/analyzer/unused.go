package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

func detectUnused(_ Tables, rules []match.Traffic) []domain.Finding {
	var findings []domain.Finding
	for _, r := range rules {
		if r.Rule.HitCount != 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Kind:           domain.KindUnused,
			Rule:           r.Rule,
			Severity:       domain.SeverityLow,
			Description:    fmt.Sprintf("Rule '%s' has never been used (0 hits)", r.Rule.Name),
			Impact:         "No traffic has matched this rule during the observation period",
			Recommendation: "Confirm the rule is still needed and remove it if not",
		})
	}
	return findings
}
