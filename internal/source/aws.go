package source

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type Direction string

const (
	Ingress Direction = "ingress"
	Egress  Direction = "egress"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ingress", "inbound", "in":
		return Ingress, nil
	case "egress", "outbound", "out":
		return Egress, nil
	default:
		return "", fmt.Errorf("unknown direction %q: use ingress or egress", s)
	}
}

// Stateful rules are placed after every stateless rule, matching the order
// in which Network Firewall evaluates the two engines.
const statefulPriorityBase = 1_000_000

// FromNACL returns the entries for one direction ordered by rule number,
// which becomes the rule priority.
func FromNACL(nacl *domain.NACLData, dir Direction) []domain.Rule {
	entries := nacl.InboundRules
	if dir == Egress {
		entries = nacl.OutboundRules
	}
	sorted := make([]domain.NACLRule, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RuleNumber < sorted[j].RuleNumber
	})

	rules := make([]domain.Rule, 0, len(sorted))
	for _, e := range sorted {
		peer := e.CIDRBlock
		if peer == "" {
			peer = e.IPv6CIDRBlock
		}
		number := strconv.Itoa(e.RuleNumber)
		if e.RuleNumber == 32767 {
			number = "*"
		}
		action, ok := ParseAction(e.Action)
		if !ok {
			action = domain.ActionDeny
		}
		protocol := normalizeProtocol(e.Protocol)
		src, dst := orient(peer, dir)
		rules = append(rules, domain.Rule{
			ID:          fmt.Sprintf("%s/%s/%s", nacl.ID, dir, number),
			Name:        fmt.Sprintf("%s %s #%s", nacl.ID, dir, number),
			Source:      src,
			Destination: dst,
			Port:        portExpression(protocol, e.FromPort, e.ToPort),
			Protocol:    protocol,
			Action:      action,
			Priority:    e.RuleNumber,
		})
	}
	return rules
}

// FromSecurityGroups expands every permission into one allow rule per peer.
// Prefix lists found in prefixLists are expanded to their CIDRs; other
// referenced groups and lists are kept as opaque address tokens.
func FromSecurityGroups(groups []*domain.SecurityGroupData, dir Direction, prefixLists map[string][]string) []domain.Rule {
	var rules []domain.Rule
	for _, sg := range groups {
		if sg == nil {
			continue
		}
		perms := sg.InboundRules
		if dir == Egress {
			perms = sg.OutboundRules
		}
		for pi, perm := range perms {
			protocol := normalizeProtocol(perm.Protocol)
			port := portExpression(protocol, perm.FromPort, perm.ToPort)
			for _, peer := range securityGroupPeers(perm, prefixLists) {
				src, dst := orient(peer, dir)
				n := len(rules) + 1
				rules = append(rules, domain.Rule{
					ID:          fmt.Sprintf("%s/%s/%d", sg.ID, dir, n),
					Name:        fmt.Sprintf("%s %s permission %d (%s)", securityGroupLabel(sg), dir, pi+1, peer),
					Source:      src,
					Destination: dst,
					Port:        port,
					Protocol:    protocol,
					Action:      domain.ActionAllow,
					Priority:    n,
				})
			}
		}
	}
	return rules
}

func securityGroupLabel(sg *domain.SecurityGroupData) string {
	if sg.Name != "" {
		return sg.Name
	}
	return sg.ID
}

func securityGroupPeers(perm domain.SecurityGroupRule, prefixLists map[string][]string) []string {
	var peers []string
	peers = append(peers, perm.CIDRBlocks...)
	peers = append(peers, perm.IPv6CIDRBlocks...)
	peers = append(peers, perm.ReferencedSecurityGroups...)
	for _, id := range perm.PrefixListIDs {
		if cidrs, ok := prefixLists[id]; ok && len(cidrs) > 0 {
			peers = append(peers, cidrs...)
			continue
		}
		peers = append(peers, id)
	}
	return peers
}

// FromNetworkFirewall flattens the stateless groups (group priority, then
// rule priority) followed by the stateful groups. Rules that forward to the
// stateful engine or only alert are skipped.
func FromNetworkFirewall(fw *domain.NetworkFirewallData) []domain.Rule {
	var rules []domain.Rule
	priority := 0

	stateless := make([]domain.StatelessRuleGroup, len(fw.StatelessRuleGroups))
	copy(stateless, fw.StatelessRuleGroups)
	sort.SliceStable(stateless, func(i, j int) bool {
		return stateless[i].Priority < stateless[j].Priority
	})
	for gi, group := range stateless {
		ordered := make([]domain.StatelessRule, len(group.Rules))
		copy(ordered, group.Rules)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Priority < ordered[j].Priority
		})
		for _, r := range ordered {
			action, ok := statelessAction(r.Actions)
			if !ok {
				continue
			}
			port := destPortExpression(r.Match.DestPorts)
			for _, protocol := range statelessProtocols(r.Match.Protocols) {
				for _, src := range orAny(r.Match.Sources) {
					for _, dst := range orAny(r.Match.Destinations) {
						priority++
						rules = append(rules, domain.Rule{
							ID:          fmt.Sprintf("%s/stateless/%d/%d", fw.Name, gi+1, priority),
							Name:        fmt.Sprintf("%s stateless group %d priority %d", fw.Name, group.Priority, r.Priority),
							Source:      src,
							Destination: dst,
							Port:        port,
							Protocol:    protocol,
							Action:      action,
							Priority:    priority,
						})
					}
				}
			}
		}
	}

	stateful := make([]domain.StatefulRuleGroup, len(fw.StatefulRuleGroups))
	copy(stateful, fw.StatefulRuleGroups)
	sort.SliceStable(stateful, func(i, j int) bool {
		return stateful[i].Priority < stateful[j].Priority
	})
	n := 0
	for gi, group := range stateful {
		for ri, r := range group.Rules {
			action, ok := statefulAction(r.Action)
			if !ok {
				continue
			}
			n++
			label := r.SID
			if label == "" {
				label = strconv.Itoa(ri + 1)
			}
			rules = append(rules, domain.Rule{
				ID:          fmt.Sprintf("%s/stateful/%d/%s", fw.Name, gi+1, label),
				Name:        fmt.Sprintf("%s stateful group %d rule %s", fw.Name, gi+1, label),
				Source:      suricataToken(r.Source),
				Destination: suricataToken(r.Destination),
				Port:        suricataToken(r.DestPort),
				Protocol:    normalizeProtocol(r.Protocol),
				Action:      action,
				Priority:    statefulPriorityBase + n,
			})
		}
	}
	return rules
}

func statelessAction(actions []string) (domain.Action, bool) {
	for _, a := range actions {
		switch a {
		case "aws:pass":
			return domain.ActionAllow, true
		case "aws:drop":
			return domain.ActionDeny, true
		}
	}
	return "", false
}

func statefulAction(action string) (domain.Action, bool) {
	switch strings.ToUpper(action) {
	case "PASS":
		return domain.ActionAllow, true
	case "DROP", "REJECT":
		return domain.ActionDeny, true
	default:
		return "", false
	}
}

var protocolNumbers = map[int]string{
	1:  "icmp",
	6:  "tcp",
	17: "udp",
	58: "icmpv6",
}

func statelessProtocols(numbers []int) []string {
	if len(numbers) == 0 {
		return []string{"any"}
	}
	out := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if name, ok := protocolNumbers[n]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, strconv.Itoa(n))
	}
	return out
}

func normalizeProtocol(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "", "-1", "all", "ip", "any":
		return "any"
	}
	if n, err := strconv.Atoi(p); err == nil {
		if name, ok := protocolNumbers[n]; ok {
			return name
		}
	}
	return p
}

func portExpression(protocol string, from, to int) string {
	switch {
	case protocol == "any", protocol == "icmp", protocol == "icmpv6":
		return domain.Any
	case from == -1 || (from == 0 && to == 0):
		return domain.Any
	case from <= 1 && to >= 65535:
		return domain.Any
	case from == to:
		return strconv.Itoa(from)
	default:
		return fmt.Sprintf("%d-%d", from, to)
	}
}

func destPortExpression(ranges []domain.PortRangeSpec) string {
	if len(ranges) == 0 {
		return domain.Any
	}
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.IsAny() {
			return domain.Any
		}
		if r.From == r.To {
			parts = append(parts, strconv.Itoa(r.From))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-%d", r.From, r.To))
	}
	return strings.Join(parts, ",")
}

func suricataToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") || s == "$ANY" {
		return domain.Any
	}
	return strings.Trim(s, "[]")
}

func orAny(values []string) []string {
	if len(values) == 0 {
		return []string{domain.Any}
	}
	return values
}

func orient(peer string, dir Direction) (src, dst string) {
	if peer == "" || peer == "0.0.0.0/0" || peer == "::/0" {
		peer = domain.Any
	}
	if dir == Egress {
		return domain.Any, peer
	}
	return peer, domain.Any
}
