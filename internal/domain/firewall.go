package domain

type NetworkFirewallData struct {
	ID                  string
	Name                string
	PolicyARN           string
	VPCID               string
	StatelessRuleGroups []StatelessRuleGroup
	StatefulRuleGroups  []StatefulRuleGroup
}

type StatelessRuleGroup struct {
	Priority int
	ARN      string
	Rules    []StatelessRule
}

type StatelessRule struct {
	Priority int
	Actions  []string
	Match    StatelessMatch
}

type StatelessMatch struct {
	Protocols    []int
	Sources      []string
	Destinations []string
	DestPorts    []PortRangeSpec
}

type PortRangeSpec struct {
	From int
	To   int
}

type StatefulRuleGroup struct {
	Priority int
	ARN      string
	Rules    []StatefulRule
}

// StatefulRule is a rule in 5-tuple (Suricata header) form.
type StatefulRule struct {
	Action      string
	Protocol    string
	Source      string
	SourcePort  string
	Destination string
	DestPort    string
	Direction   string
	SID         string
}

func (p PortRangeSpec) IsAny() bool {
	return (p.From == 0 && p.To == 0) || (p.From <= 1 && p.To >= 65535)
}
