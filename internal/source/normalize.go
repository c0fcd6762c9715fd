package source

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

var actionAliases = map[string]domain.Action{
	"allow":  domain.ActionAllow,
	"accept": domain.ActionAllow,
	"permit": domain.ActionAllow,
	"pass":   domain.ActionAllow,
	"deny":   domain.ActionDeny,
	"drop":   domain.ActionDeny,
	"reject": domain.ActionDeny,
	"block":  domain.ActionDeny,
}

func ParseAction(s string) (domain.Action, bool) {
	a, ok := actionAliases[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// Normalize applies field defaults and returns the rules sorted by priority,
// ties kept in input order. Every malformed record is reported, joined into
// a single error.
func Normalize(records []Record) ([]domain.Rule, error) {
	rules := make([]domain.Rule, 0, len(records))
	seen := make(map[string]int, len(records))
	var errs []error

	for i, rec := range records {
		rule, err := normalizeRecord(i, rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if first, dup := seen[rule.ID]; dup {
			errs = append(errs, &RecordError{
				Index:  i,
				Field:  "id",
				Value:  rule.ID,
				Reason: fmt.Sprintf("duplicate of record %d", first+1),
			})
			continue
		}
		seen[rule.ID] = i
		rules = append(rules, rule)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	Sort(rules)
	return rules, nil
}

// Sort orders rules by ascending priority, keeping input order on ties.
func Sort(rules []domain.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
}

func normalizeRecord(i int, rec Record) (domain.Rule, error) {
	position := strconv.Itoa(i + 1)

	rule := domain.Rule{
		ID:          textOr(rec, "id", position),
		Name:        textOr(rec, "name", "Rule "+position),
		Source:      textOr(rec, "source", domain.Any),
		Destination: textOr(rec, "destination", domain.Any),
		Port:        textOr(rec, "port", domain.Any),
		Protocol:    strings.ToLower(textOr(rec, "protocol", "any")),
		Priority:    i + 1,
	}

	action, ok := ParseAction(textOr(rec, "action", string(domain.ActionAllow)))
	if !ok {
		return domain.Rule{}, &RecordError{Index: i, Field: "action", Value: rec["action"], Reason: "must be allow or deny"}
	}
	rule.Action = action

	priority, present, err := rec.integer("priority")
	if err != nil {
		return domain.Rule{}, &RecordError{Index: i, Field: "priority", Value: rec["priority"], Reason: "not an integer"}
	}
	if present {
		rule.Priority = priority
	}

	hits, _, err := rec.integer("hit_count")
	if err != nil {
		return domain.Rule{}, &RecordError{Index: i, Field: "hit_count", Value: rec["hit_count"], Reason: "not an integer"}
	}
	if hits < 0 {
		return domain.Rule{}, &RecordError{Index: i, Field: "hit_count", Value: rec["hit_count"], Reason: "must not be negative"}
	}
	rule.HitCount = hits

	return rule, nil
}

func textOr(rec Record, key, fallback string) string {
	if s, ok := rec.text(key); ok && s != "" {
		return s
	}
	return fallback
}
