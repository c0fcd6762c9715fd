package domain

import (
	"fmt"
	"strings"
)

const Any = "*"

type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
)

// Rule is one normalized access-control entry. Source, Destination and Port
// hold the universal sentinel rather than an empty string.
type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Port        string `json:"port" yaml:"port"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Action      Action `json:"action" yaml:"action"`
	Priority    int    `json:"priority" yaml:"priority"`
	HitCount    int    `json:"hit_count" yaml:"hit_count"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s (%s -> %s port %s/%s %s, priority %d)",
		r.Name, r.Source, r.Destination, r.Port, r.Protocol, r.Action, r.Priority)
}

func IsAny(token string) bool {
	return token == Any || strings.EqualFold(token, "any")
}
