package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/domain"
	"github.com/eleven-am/fwaudit/internal/match"
)

// detectUnsafeServices walks the service table in order and stops at the
// first entry the rule's ports overlap in either direction.
func detectUnsafeServices(tables Tables, rules []match.Traffic) []domain.Finding {
	services := make([]match.PortSet, len(tables.UnsafeServices))
	for i, s := range tables.UnsafeServices {
		services[i] = match.SinglePort(s.Port)
	}

	var findings []domain.Finding
	for _, r := range rules {
		if r.Rule.Action != domain.ActionAllow {
			continue
		}
		for i, svc := range services {
			if !svc.Within(r.Ports) && !r.Ports.Within(svc) {
				continue
			}
			service := tables.UnsafeServices[i]
			severity := domain.SeverityMedium
			if r.Source.IsAny() {
				severity = domain.SeverityHigh
			}
			findings = append(findings, domain.Finding{
				Kind:           domain.KindUnsafeService,
				Rule:           r.Rule,
				Severity:       severity,
				Service:        service.Name,
				Description:    fmt.Sprintf("Rule '%s' allows %s (port %d)", r.Rule.Name, service.Name, service.Port),
				Impact:         fmt.Sprintf("%s is an insecure service and exposes credentials or data in clear text", service.Name),
				Recommendation: fmt.Sprintf("Replace %s with a secure alternative or restrict the allowed sources", service.Name),
			})
			break
		}
	}
	return findings
}
