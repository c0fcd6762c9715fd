package domain

import "fmt"

type PortParseError struct {
	Expr   string
	Token  string
	Reason string
}

func (e *PortParseError) Error() string {
	if e.Token != "" && e.Token != e.Expr {
		return fmt.Sprintf("invalid port expression %q: token %q: %s", e.Expr, e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid port expression %q: %s", e.Expr, e.Reason)
}
