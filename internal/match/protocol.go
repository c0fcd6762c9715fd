package match

import (
	"strings"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type Protocol struct {
	any   bool
	token string
}

func ParseProtocol(expr string) Protocol {
	token := strings.ToLower(strings.TrimSpace(expr))
	if token == "" || domain.IsAny(token) {
		return Protocol{any: true, token: token}
	}
	return Protocol{token: token}
}

func (p Protocol) IsAny() bool {
	return p.any
}

func (p Protocol) String() string {
	if p.any {
		return "any"
	}
	return p.token
}

func (p Protocol) Within(super Protocol) bool {
	if super.any {
		return true
	}
	return !p.any && p.token == super.token
}
