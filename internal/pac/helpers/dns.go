package helpers

import (
	"context"
	"net/netip"
	"strings"

	"go.uber.org/zap"
)

// lookup resolves host on network ("ip4" or "ip"). IP literals are returned
// without touching the resolver.
func (l *Library) lookup(network, host string) []netip.Addr {
	if host == "" {
		return nil
	}
	if addr, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		addr = addr.Unmap()
		if network == "ip4" && !addr.Is4() {
			return nil
		}
		return []netip.Addr{addr}
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.lookupTimeout)
	defer cancel()

	addrs, err := l.resolver.LookupNetIP(ctx, network, host)
	if err != nil {
		l.logger.Debug("Lookup failed", zap.String("host", host), zap.String("network", network), zap.Error(err))
		return nil
	}

	out := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		a = a.Unmap()
		if network == "ip4" && !a.Is4() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// IsResolvable reports whether host has an IPv4 address
func (l *Library) IsResolvable(host string) bool {
	return len(l.lookup("ip4", host)) > 0
}

// DNSResolve returns the first IPv4 address of host, or "" when it does
// not resolve
func (l *Library) DNSResolve(host string) string {
	addrs := l.lookup("ip4", host)
	if len(addrs) == 0 {
		return ""
	}
	return addrs[0].String()
}

// IsResolvableEx reports whether host has any address
func (l *Library) IsResolvableEx(host string) bool {
	return len(l.lookup("ip", host)) > 0
}

// DNSResolveEx returns every address of host separated by semicolons
func (l *Library) DNSResolveEx(host string) string {
	return joinAddrs(l.lookup("ip", host))
}

func joinAddrs(addrs []netip.Addr) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ";")
}
