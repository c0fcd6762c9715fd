package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

func detectPermissive(tables Tables, rules []match.Traffic) []domain.Finding {
	var findings []domain.Finding
	for _, r := range rules {
		if r.Rule.Action != domain.ActionAllow {
			continue
		}

		var issues []string
		severity := domain.SeverityNone
		raise := func(issue string, floor domain.Severity) {
			issues = append(issues, issue)
			severity = domain.MaxSeverity(severity, floor)
		}

		anySource := r.Source.IsAny()
		if anySource && r.Destination.IsAny() {
			raise("allows all traffic (any -> any)", domain.SeverityHigh)
		}
		if exposed := tables.sensitiveIn(r.Ports); anySource && len(exposed) > 0 {
			raise(fmt.Sprintf("sensitive port %s open to any source", joinPorts(exposed)), domain.SeverityMedium)
		}
		if anySource && r.Protocol.IsAny() {
			raise("all protocols allowed from any source", domain.SeverityMedium)
		}
		if anySource && r.Ports.IsAny() {
			raise("all ports open to any source", domain.SeverityMedium)
		}

		if len(issues) == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Kind:           domain.KindPermissive,
			Rule:           r.Rule,
			Severity:       severity,
			Issues:         issues,
			Description:    fmt.Sprintf("Rule '%s' is overly permissive: %s", r.Rule.Name, strings.Join(issues, ", ")),
			Impact:         "The rule exposes more of the network than it is likely meant to",
			Recommendation: "Restrict the source, destination, ports and protocol to what is actually required",
		})
	}
	return findings
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
