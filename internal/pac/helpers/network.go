package helpers

import (
	"net"
	"net/netip"
	"slices"
	"strings"
)

const loopbackIPv4 = "127.0.0.1"

// IsInNet reports whether host, or its first IPv4 address, lies in the
// network given by a dotted pattern and mask
func (l *Library) IsInNet(host, pattern, mask string) bool {
	network, err := netip.ParseAddr(pattern)
	if err != nil || !network.Is4() {
		return false
	}
	m, err := netip.ParseAddr(mask)
	if err != nil || !m.Is4() {
		return false
	}

	addrs := l.lookup("ip4", host)
	if len(addrs) == 0 {
		return false
	}

	a, n, mm := addrs[0].As4(), network.As4(), m.As4()
	for i := range a {
		if a[i]&mm[i] != n[i]&mm[i] {
			return false
		}
	}
	return true
}

// IsInNetEx reports whether any address of host lies in the CIDR prefix
func (l *Library) IsInNetEx(host, prefix string) bool {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return false
	}
	p = p.Masked()

	for _, a := range l.lookup("ip", host) {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// MyIPAddress returns the primary local IPv4 address, loopback when none
// is found
func (l *Library) MyIPAddress() string {
	for _, a := range l.localAddrs() {
		if a.Is4() {
			return a.String()
		}
	}
	return loopbackIPv4
}

// MyIPAddressEx returns every local address separated by semicolons
func (l *Library) MyIPAddressEx() string {
	return joinAddrs(l.localAddrs())
}

// SortIPAddressList sorts a semicolon separated list with IPv6 addresses
// first. Any unparsable entry yields "".
func (l *Library) SortIPAddressList(list string) string {
	if strings.TrimSpace(list) == "" {
		return ""
	}

	parts := strings.Split(list, ";")
	addrs := make([]netip.Addr, 0, len(parts))
	for _, p := range parts {
		a, err := netip.ParseAddr(strings.TrimSpace(p))
		if err != nil {
			return ""
		}
		addrs = append(addrs, a.Unmap())
	}

	slices.SortStableFunc(addrs, func(a, b netip.Addr) int {
		if a.Is6() != b.Is6() {
			if a.Is6() {
				return -1
			}
			return 1
		}
		return a.Compare(b)
	})
	return joinAddrs(addrs)
}

// Probe targets from the documentation ranges; connecting a UDP socket
// sends nothing but makes the kernel pick the outbound source address.
var probeTargets = []string{"198.51.100.1:80", "[2001:db8::1]:80"}

// LocalAddrs returns the source addresses the host would use for outbound
// IPv4 and IPv6 traffic
func LocalAddrs() []netip.Addr {
	var out []netip.Addr
	for _, target := range probeTargets {
		conn, err := net.Dial("udp", target)
		if err != nil {
			continue
		}
		if udp, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			if a, ok := netip.AddrFromSlice(udp.IP); ok {
				out = append(out, a.Unmap())
			}
		}
		conn.Close()
	}
	return out
}
