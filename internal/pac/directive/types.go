// Package directive parses the string returned by a PAC entry function into
// an ordered list of proxy choices.
package directive

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies how a connection should be routed
type Kind int

const (
	Direct Kind = iota
	HTTP
	SOCKS
)

// String returns the canonical directive token for the kind
func (k Kind) String() string {
	switch k {
	case Direct:
		return "DIRECT"
	case HTTP:
		return "PROXY"
	case SOCKS:
		return "SOCKS"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the kind as its canonical token
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Choice is a single routing option. Host and Port are only set for
// non-direct kinds.
type Choice struct {
	Kind Kind   `json:"kind"`
	Host string `json:"host,omitempty"`
	Port uint16 `json:"port,omitempty"`
}

// DirectChoice is the choice used when no proxy should be involved
var DirectChoice = Choice{Kind: Direct}

// Endpoint returns the proxy address, ok is false for direct choices
func (c Choice) Endpoint() (host string, port uint16, ok bool) {
	if c.Kind == Direct {
		return "", 0, false
	}
	return c.Host, c.Port, true
}

// Address returns host:port with the host exactly as parsed
func (c Choice) Address() string {
	if c.Kind == Direct {
		return ""
	}
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

func (c Choice) String() string {
	if c.Kind == Direct {
		return c.Kind.String()
	}
	return c.Kind.String() + " " + c.Address()
}

// Plan is an ordered list of choices, first is tried first
type Plan []Choice

// DirectPlan returns the single-element fallback plan
func DirectPlan() Plan {
	return Plan{DirectChoice}
}

// Clone returns a copy that can be handed out without sharing the backing array
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// IsDirect reports whether the plan is exactly [DIRECT]
func (p Plan) IsDirect() bool {
	return len(p) == 1 && p[0].Kind == Direct
}

// String renders the plan back into PAC directive syntax
func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// ValidationError describes why a PAC result string was rejected
type ValidationError struct {
	Input     string // Full result string
	Directive string // Offending directive, empty when the whole input is at fault
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("invalid PAC result %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid PAC directive %q: %s", e.Directive, e.Reason)
}
