package analyzer

import (
	"strconv"
	"testing"

	"github.com/eleven-am/fwaudit/internal/domain"
)

func newRule(id int, src, dst, port, proto string, action domain.Action) domain.Rule {
	return domain.Rule{
		ID:          strconv.Itoa(id),
		Name:        "Rule " + strconv.Itoa(id),
		Source:      src,
		Destination: dst,
		Port:        port,
		Protocol:    proto,
		Action:      action,
		Priority:    id,
		HitCount:    10,
	}
}

func findByRule(findings []domain.Finding, id string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.Rule.ID == id {
			out = append(out, f)
		}
	}
	return out
}

func mustOne(t *testing.T, findings []domain.Finding, id string) domain.Finding {
	t.Helper()
	got := findByRule(findings, id)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding for rule %s, got %d", id, len(got))
	}
	return got[0]
}
