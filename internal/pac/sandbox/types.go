package sandbox

import (
	"errors"
	"fmt"
)

// HelperSurface is the global name the helper object is bound under. It is
// also the only capability name the default policy allows.
const HelperSurface = "PacHelpers"

// Config defines sandbox configuration
type Config struct {
	MaxCallStackSize int    // Maximum JS call depth, 0 keeps the goja default
	AllowEval        bool   // Leave eval and the Function constructor usable
	Policy           Policy // Zero value falls back to DefaultPolicy
}

// DefaultConfig returns the hardened configuration
func DefaultConfig() Config {
	return Config{
		MaxCallStackSize: 1024,
		AllowEval:        false,
		Policy:           DefaultPolicy(),
	}
}

// Helpers is the host-provided PAC function library. Every method must be
// safe to call while the runtime lock is held and must not retain the
// arguments.
type Helpers interface {
	IsPlainHostName(host string) bool
	DNSDomainIs(host, domain string) bool
	LocalHostOrDomainIs(host, hostdom string) bool
	IsResolvable(host string) bool
	IsInNet(host, pattern, mask string) bool
	DNSResolve(host string) string
	MyIPAddress() string
	DNSDomainLevels(host string) int
	ShExpMatch(str, pattern string) bool
	WeekdayRange(args ...string) bool
	DateRange(args ...string) bool
	TimeRange(args ...string) bool

	// Microsoft IPv6 extensions
	IsResolvableEx(host string) bool
	IsInNetEx(host, prefix string) bool
	DNSResolveEx(host string) string
	MyIPAddressEx() string
	SortIPAddressList(list string) string
	GetClientVersion() string
}

// Load stages
const (
	StageSetup   = "setup"
	StageScript  = "script"
	StageHelpers = "helpers"
)

var (
	ErrNoHelpers         = errors.New("helper object is required")
	ErrUndefinedFunction = errors.New("function is not defined")
	ErrInterrupted       = errors.New("script execution interrupted")
	ErrClosed            = errors.New("runtime is closed")
)

// LoadError is returned by New when the runtime could not be initialized
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AccessDeniedError reports an attempt to reach a capability the policy
// does not allow
type AccessDeniedError struct {
	Name string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access to host capability %q denied", e.Name)
}

// ScriptError wraps an exception thrown while running a script function
type ScriptError struct {
	Function string
	Err      error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Function, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }
