package match

import "github.com/eleven-am/fwaudit/internal/domain"

// Traffic is a rule with its match fields parsed once.
type Traffic struct {
	Rule        domain.Rule
	Source      Address
	Destination Address
	Ports       PortSet
	Protocol    Protocol
}

func Compile(rule domain.Rule) Traffic {
	return Traffic{
		Rule:        rule,
		Source:      ParseAddress(rule.Source),
		Destination: ParseAddress(rule.Destination),
		Ports:       ParsePorts(rule.Port),
		Protocol:    ParseProtocol(rule.Protocol),
	}
}

func CompileAll(rules []domain.Rule) []Traffic {
	out := make([]Traffic, len(rules))
	for i, r := range rules {
		out[i] = Compile(r)
	}
	return out
}

// Valid is false when the port expression failed to parse. Such a rule is
// neither contained in nor contains any other rule.
func (t Traffic) Valid() bool {
	return t.Ports.Valid()
}

// Within reports whether all traffic matched by t is also matched by super.
func (t Traffic) Within(super Traffic) bool {
	if !t.Valid() || !super.Valid() {
		return false
	}
	return t.Source.Within(super.Source) &&
		t.Destination.Within(super.Destination) &&
		t.Ports.Within(super.Ports) &&
		t.Protocol.Within(super.Protocol)
}

// Equivalent is mutual containment.
func (t Traffic) Equivalent(o Traffic) bool {
	return t.Within(o) && o.Within(t)
}

func (t Traffic) OverlyGeneric() bool {
	return t.Source.IsAny() || t.Destination.IsAny() || t.Ports.IsAny() || t.Protocol.IsAny()
}
