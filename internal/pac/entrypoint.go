package pac

import (
	"errors"
)

// EntryPoint identifies which PAC calling convention a script implements
type EntryPoint int

const (
	// Standard is FindProxyForURL(url, host)
	Standard EntryPoint = iota
	// IPv6Aware is FindProxyForURLEx(url, host)
	IPv6Aware
)

// Entry function names
const (
	FunctionStandard  = "FindProxyForURL"
	FunctionIPv6Aware = "FindProxyForURLEx"
)

var ErrNoEntryPoint = errors.New("script defines neither " + FunctionIPv6Aware + " nor " + FunctionStandard)

// FunctionName returns the global function invoked for this entry point
func (e EntryPoint) FunctionName() string {
	if e == IPv6Aware {
		return FunctionIPv6Aware
	}
	return FunctionStandard
}

func (e EntryPoint) String() string {
	switch e {
	case Standard:
		return "standard"
	case IPv6Aware:
		return "ipv6-aware"
	default:
		return "unknown"
	}
}

// MarshalText renders the entry point name
func (e EntryPoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// FunctionChecker reports whether a global name is callable
type FunctionChecker interface {
	HasFunction(name string) bool
}

// ResolveEntryPoint picks the IPv6-aware entry point when the script
// defines it and falls back to the standard one
func ResolveEntryPoint(rt FunctionChecker) (EntryPoint, error) {
	switch {
	case rt.HasFunction(FunctionIPv6Aware):
		return IPv6Aware, nil
	case rt.HasFunction(FunctionStandard):
		return Standard, nil
	default:
		return Standard, ErrNoEntryPoint
	}
}
