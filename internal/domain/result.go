package domain

import (
	"encoding/json"
	"time"
)

type CorrelationEntry struct {
	Rule     Rule     `json:"rule"`
	Tags     []string `json:"tags"`
	Severity Severity `json:"severity"`
}

type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func (c SeverityCounts) Total() int {
	return c.High + c.Medium + c.Low
}

func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
}

type DiagnosticKind string

const (
	DiagnosticDataQuality     DiagnosticKind = "data_quality"
	DiagnosticDetectorFailure DiagnosticKind = "detector_failure"
)

type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	RuleID   string         `json:"rule_id,omitempty"`
	Detector Kind           `json:"detector,omitempty"`
	Message  string         `json:"message"`
}

type Report struct {
	ID             string
	GeneratedAt    time.Time
	Rules          []Rule
	Findings       map[Kind][]Finding
	Correlated     []CorrelationEntry
	SeverityCounts SeverityCounts
	Diagnostics    []Diagnostic
}

func (r *Report) Category(k Kind) []Finding {
	return r.Findings[k]
}

// TotalFindings counts findings across the six categories.
func (r *Report) TotalFindings() int {
	total := 0
	for _, k := range Kinds {
		total += len(r.Findings[k])
	}
	return total
}

func (r *Report) Correlation(ruleID string) (CorrelationEntry, bool) {
	for _, e := range r.Correlated {
		if e.Rule.ID == ruleID {
			return e, true
		}
	}
	return CorrelationEntry{}, false
}

func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(Kinds)+6)
	for _, k := range Kinds {
		findings := r.Findings[k]
		if findings == nil {
			findings = []Finding{}
		}
		out[string(k)] = findings
	}
	out["correlated"] = r.Correlated
	out["severity_counts"] = r.SeverityCounts
	if r.ID != "" {
		out["id"] = r.ID
	}
	if !r.GeneratedAt.IsZero() {
		out["generated_at"] = r.GeneratedAt
	}
	if len(r.Diagnostics) > 0 {
		out["diagnostics"] = r.Diagnostics
	}
	return json.Marshal(out)
}
