package analyzer

import (
	"fmt"

	"github.com/eleven-am/fwaudit/internal/match"
)

type Service struct {
	Port int    `json:"port" yaml:"port" toml:"port"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Tables holds the lookup data the detectors consult. The unsafe service
// list is ordered; only the first matching entry is reported per rule.
type Tables struct {
	SensitivePorts []int     `json:"sensitive_ports"`
	UnsafeServices []Service `json:"unsafe_services"`
}

func DefaultTables() Tables {
	return Tables{
		SensitivePorts: []int{22, 23, 3389, 445, 139, 21, 3306, 5432, 1433},
		UnsafeServices: []Service{
			{Port: 21, Name: "FTP"},
			{Port: 23, Name: "Telnet"},
			{Port: 80, Name: "HTTP"},
			{Port: 139, Name: "NetBIOS"},
			{Port: 445, Name: "SMB"},
			{Port: 3306, Name: "MySQL"},
			{Port: 3389, Name: "RDP"},
			{Port: 5900, Name: "VNC"},
		},
	}
}

// sensitiveIn returns the sensitive ports covered by ports, in table order.
func (t Tables) sensitiveIn(ports match.PortSet) []int {
	var out []int
	for _, p := range t.SensitivePorts {
		if match.SinglePort(p).Within(ports) {
			out = append(out, p)
		}
	}
	return out
}

func (t Tables) Validate() error {
	for _, p := range t.SensitivePorts {
		if p < 0 || p > 65535 {
			return fmt.Errorf("sensitive port %d out of range", p)
		}
	}
	for _, s := range t.UnsafeServices {
		if s.Port < 0 || s.Port > 65535 {
			return fmt.Errorf("unsafe service %q port %d out of range", s.Name, s.Port)
		}
		if s.Name == "" {
			return fmt.Errorf("unsafe service on port %d has no name", s.Port)
		}
	}
	return nil
}
