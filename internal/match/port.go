package match

import (
	"strconv"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

const (
	MinPort = 1
	MaxPort = 65535
)

type PortRange struct {
	Lo int
	Hi int
}

func (r PortRange) covers(o PortRange) bool {
	return r.Lo <= o.Lo && o.Hi <= r.Hi
}

// PortSet is a compiled port expression. A set that failed to parse keeps
// its error and never takes part in containment.
type PortSet struct {
	any    bool
	raw    string
	ranges []PortRange
	err    error
}

func ParsePorts(expr string) PortSet {
	expr = strings.TrimSpace(expr)
	if expr == "" || domain.IsAny(expr) {
		return PortSet{any: true, raw: expr, ranges: []PortRange{{MinPort, MaxPort}}}
	}

	var ranges []PortRange
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		r, err := parsePortToken(expr, token)
		if err != nil {
			return PortSet{raw: expr, err: err}
		}
		ranges = append(ranges, r)
	}
	return PortSet{raw: expr, ranges: ranges}
}

func parsePortToken(expr, token string) (PortRange, error) {
	if token == "" {
		return PortRange{}, &domain.PortParseError{Expr: expr, Reason: "empty list item"}
	}
	if domain.IsAny(token) {
		return PortRange{MinPort, MaxPort}, nil
	}

	lo, hi, isRange := strings.Cut(token, "-")
	start, err := parsePortNumber(expr, token, lo)
	if err != nil {
		return PortRange{}, err
	}
	if !isRange {
		return PortRange{start, start}, nil
	}
	end, err := parsePortNumber(expr, token, hi)
	if err != nil {
		return PortRange{}, err
	}
	if start > end {
		return PortRange{}, &domain.PortParseError{Expr: expr, Token: token, Reason: "range start exceeds end"}
	}
	return PortRange{start, end}, nil
}

func parsePortNumber(expr, token, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &domain.PortParseError{Expr: expr, Token: token, Reason: "not a number"}
	}
	if n < 0 || n > MaxPort {
		return 0, &domain.PortParseError{Expr: expr, Token: token, Reason: "out of range"}
	}
	return n, nil
}

func (p PortSet) IsAny() bool {
	return p.any
}

func (p PortSet) Err() error {
	return p.err
}

func (p PortSet) Valid() bool {
	return p.err == nil
}

func (p PortSet) String() string {
	if p.any && p.raw == "" {
		return domain.Any
	}
	return p.raw
}

// Within reports whether every interval of p is covered by a single interval of super.
func (p PortSet) Within(super PortSet) bool {
	if p.err != nil || super.err != nil {
		return false
	}
	for _, r := range p.ranges {
		covered := false
		for _, s := range super.ranges {
			if s.covers(r) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func SinglePort(port int) PortSet {
	return PortSet{raw: strconv.Itoa(port), ranges: []PortRange{{port, port}}}
}
