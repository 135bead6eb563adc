package pac

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// StripURL returns the form of target handed to the script: no user info,
// query or fragment, and nothing after the last '/' of the path. The host is
// rewritten to match Host so url and host agree.
func StripURL(target *url.URL) string {
	u := *target
	u.Host = hostPort(Host(target), target.Port())
	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.RawPath = ""
	if i := strings.LastIndex(u.Path, "/"); i >= 0 {
		u.Path = u.Path[:i+1]
	}
	return u.String()
}

// Host returns the lower-cased ASCII host of target without brackets or
// port. Hosts that cannot be converted are returned lower-cased as is.
func Host(target *url.URL) string {
	host := strings.ToLower(target.Hostname())
	ascii, err := idna.Punycode.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

// hostPort joins host and an optional port, bracketing IPv6 literals
func hostPort(host, port string) string {
	if port != "" {
		return net.JoinHostPort(host, port)
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

// CacheKey identifies a query: the full target URL including its query,
// without the fragment
func CacheKey(target *url.URL) string {
	u := *target
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
