package match

import (
	"net/netip"
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type addressKind int

const (
	addressAny addressKind = iota
	addressNetwork
	addressToken
)

// Address is a compiled source or destination expression.
type Address struct {
	kind   addressKind
	raw    string
	prefix netip.Prefix
}

func ParseAddress(expr string) Address {
	expr = strings.TrimSpace(expr)
	if expr == "" || domain.IsAny(expr) {
		return Address{kind: addressAny, raw: expr}
	}
	if prefix, ok := parseNetwork(expr); ok {
		return Address{kind: addressNetwork, raw: expr, prefix: prefix}
	}
	return Address{kind: addressToken, raw: expr}
}

func parseNetwork(expr string) (netip.Prefix, bool) {
	if strings.Contains(expr, "/") {
		prefix, err := netip.ParsePrefix(expr)
		if err != nil {
			return netip.Prefix{}, false
		}
		return prefix.Masked(), true
	}
	addr, err := netip.ParseAddr(expr)
	if err != nil {
		return netip.Prefix{}, false
	}
	addr = addr.WithZone("")
	return netip.PrefixFrom(addr, addr.BitLen()), true
}

func (a Address) IsAny() bool {
	return a.kind == addressAny
}

func (a Address) String() string {
	if a.kind == addressAny && a.raw == "" {
		return domain.Any
	}
	return a.raw
}

// Within reports whether every address matched by a is also matched by super.
// Expressions that are not networks fall back to exact string equality.
func (a Address) Within(super Address) bool {
	if super.kind == addressAny {
		return true
	}
	if a.raw == super.raw {
		return true
	}
	if a.kind == addressAny {
		return false
	}
	if a.kind != addressNetwork || super.kind != addressNetwork {
		return a.raw == super.raw
	}
	return prefixWithin(a.prefix, super.prefix)
}

func prefixWithin(inner, outer netip.Prefix) bool {
	if inner.Addr().Is4() != outer.Addr().Is4() {
		return false
	}
	if inner.Bits() < outer.Bits() {
		return false
	}
	return outer.Contains(inner.Addr())
}
