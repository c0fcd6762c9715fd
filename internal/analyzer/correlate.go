package analyzer

import (
	"sort"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type correlation struct {
	rule     domain.Rule
	tags     map[string]struct{}
	severity domain.Severity
}

func (c *correlation) tag(tag string, severity domain.Severity) {
	c.tags[tag] = struct{}{}
	c.severity = domain.MaxSeverity(c.severity, severity)
}

// correlate folds every finding back onto the rules it touches. Each finding
// is counted once in the severity totals regardless of how many rules it tags.
func correlate(rules []domain.Rule, findings map[domain.Kind][]domain.Finding) ([]domain.CorrelationEntry, domain.SeverityCounts) {
	entries := make([]*correlation, 0, len(rules))
	byID := make(map[string]*correlation, len(rules))
	for _, r := range rules {
		if _, ok := byID[r.ID]; ok {
			continue
		}
		c := &correlation{rule: r, tags: make(map[string]struct{})}
		entries = append(entries, c)
		byID[r.ID] = c
	}

	var counts domain.SeverityCounts
	for _, kind := range domain.Kinds {
		for _, f := range findings[kind] {
			counts.Add(f.Severity)

			if c, ok := byID[f.Rule.ID]; ok {
				c.tag(string(kind), f.Severity)
			}
			if linked, ok := domain.LinkedRule(f.Related); ok {
				if c, ok := byID[linked.ID]; ok {
					c.tag(string(kind), f.Severity)
				}
			}
			if covers, ok := f.Related.(domain.Covers); ok {
				for _, r := range covers.Rules {
					if c, ok := byID[r.ID]; ok {
						c.tag(domain.TagCovered, f.Severity)
					}
				}
			}
		}
	}

	out := make([]domain.CorrelationEntry, len(entries))
	for i, c := range entries {
		tags := make([]string, 0, len(c.tags))
		for t := range c.tags {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		out[i] = domain.CorrelationEntry{Rule: c.rule, Tags: tags, Severity: c.severity}
	}
	return out, counts
}
