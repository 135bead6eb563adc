package helpers

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pacd/internal/pac/sandbox"
)

// DefaultLookupTimeout bounds a single DNS lookup made on behalf of a script
const DefaultLookupTimeout = 2 * time.Second

// DefaultClientVersion is what getClientVersion reports
const DefaultClientVersion = "1.0"

// Resolver looks up addresses for a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Options configures a Library. Zero values pick production defaults.
type Options struct {
	Resolver      Resolver
	LookupTimeout time.Duration
	LocalAddrs    func() []netip.Addr
	Now           func() time.Time
	ClientVersion string
	Logger        *zap.Logger
}

// Library implements sandbox.Helpers
type Library struct {
	resolver      Resolver
	lookupTimeout time.Duration
	localAddrs    func() []netip.Addr
	now           func() time.Time
	clientVersion string
	logger        *zap.Logger
	patterns      *patternCache
}

var _ sandbox.Helpers = (*Library)(nil)

// New creates a helper library
func New(opts Options) *Library {
	l := &Library{
		resolver:      opts.Resolver,
		lookupTimeout: opts.LookupTimeout,
		localAddrs:    opts.LocalAddrs,
		now:           opts.Now,
		clientVersion: opts.ClientVersion,
		logger:        opts.Logger,
		patterns:      newPatternCache(),
	}
	if l.resolver == nil {
		l.resolver = net.DefaultResolver
	}
	if l.lookupTimeout <= 0 {
		l.lookupTimeout = DefaultLookupTimeout
	}
	if l.localAddrs == nil {
		l.localAddrs = LocalAddrs
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.clientVersion == "" {
		l.clientVersion = DefaultClientVersion
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	l.logger = l.logger.Named("helpers")
	return l
}

// IsPlainHostName reports whether host has no domain part
func (l *Library) IsPlainHostName(host string) bool {
	return host != "" && !strings.Contains(host, ".")
}

// DNSDomainIs reports whether host ends with domain
func (l *Library) DNSDomainIs(host, domain string) bool {
	return len(host) >= len(domain) && strings.EqualFold(host[len(host)-len(domain):], domain)
}

// LocalHostOrDomainIs reports whether host equals hostdom exactly, or is
// unqualified and matches hostdom's first label
func (l *Library) LocalHostOrDomainIs(host, hostdom string) bool {
	if strings.EqualFold(host, hostdom) {
		return true
	}
	return !strings.Contains(host, ".") && len(hostdom) > len(host) &&
		strings.EqualFold(hostdom[:len(host)+1], host+".")
}

// DNSDomainLevels counts the dots in host
func (l *Library) DNSDomainLevels(host string) int {
	return strings.Count(host, ".")
}

// ShExpMatch matches str against a shell expression using * and ?
func (l *Library) ShExpMatch(str, pattern string) bool {
	return l.patterns.get(pattern).MatchString(str)
}

// GetClientVersion returns the PAC API version implemented
func (l *Library) GetClientVersion() string {
	return l.clientVersion
}
