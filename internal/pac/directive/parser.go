package directive

import (
	"fmt"
	"strconv"
	"strings"
)

var tokenKinds = map[string]Kind{
	"PROXY":  HTTP,
	"HTTP":   HTTP,
	"HTTPS":  HTTP,
	"SOCKS":  SOCKS,
	"SOCKS4": SOCKS,
	"SOCKS5": SOCKS,
}

// Parse converts a PAC result such as "PROXY a:80; SOCKS b:1080; DIRECT"
// into a non-empty Plan. Input order is preserved.
func Parse(raw string) (Plan, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ValidationError{Input: raw, Reason: "empty result"}
	}

	var plan Plan
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		choice, err := parseDirective(segment)
		if err != nil {
			err.Input = raw
			return nil, err
		}
		plan = append(plan, choice)
	}

	if len(plan) == 0 {
		return nil, &ValidationError{Input: raw, Reason: "no directives"}
	}
	return plan, nil
}

func parseDirective(d string) (Choice, *ValidationError) {
	parts := strings.Fields(d)
	token := strings.ToUpper(parts[0])

	if len(parts) == 1 {
		if token == "DIRECT" {
			return DirectChoice, nil
		}
		if _, ok := tokenKinds[token]; ok {
			return Choice{}, &ValidationError{Directive: d, Reason: "missing host:port"}
		}
		return Choice{}, &ValidationError{Directive: d, Reason: fmt.Sprintf("unrecognized token %q", parts[0])}
	}
	if len(parts) != 2 {
		return Choice{}, &ValidationError{Directive: d, Reason: fmt.Sprintf("expected 2 parts, got %d", len(parts))}
	}

	kind, ok := tokenKinds[token]
	if !ok {
		return Choice{}, &ValidationError{Directive: d, Reason: fmt.Sprintf("unrecognized token %q", parts[0])}
	}

	host, port, err := splitHostPort(parts[1])
	if err != "" {
		return Choice{}, &ValidationError{Directive: d, Reason: err}
	}
	return Choice{Kind: kind, Host: host, Port: port}, nil
}

// splitHostPort splits on the last colon so bracketed IPv6 literals keep
// their inner colons in the host.
func splitHostPort(hostport string) (string, uint16, string) {
	i := strings.LastIndexByte(hostport, ':')
	if i < 0 {
		return "", 0, fmt.Sprintf("missing port in %q", hostport)
	}

	host, portStr := hostport[:i], hostport[i+1:]
	if host == "" {
		return "", 0, fmt.Sprintf("empty host in %q", hostport)
	}
	if portStr == "" {
		return "", 0, fmt.Sprintf("empty port in %q", hostport)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Sprintf("invalid port %q", portStr)
	}
	return host, uint16(port), ""
}
