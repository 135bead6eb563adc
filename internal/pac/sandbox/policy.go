package sandbox

import "sort"

// Policy decides which host capability names a script may resolve. It is a
// closed set fixed at construction.
type Policy struct {
	allowed map[string]struct{}
}

// DefaultPolicy allows nothing but the helper surface
func DefaultPolicy() Policy {
	return NewPolicy(HelperSurface)
}

// NewPolicy allows exactly the given names
func NewPolicy(names ...string) Policy {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	return Policy{allowed: allowed}
}

// Allows reports whether name may be resolved
func (p Policy) Allows(name string) bool {
	_, ok := p.allowed[name]
	return ok
}

// Names returns the allow-list in sorted order
func (p Policy) Names() []string {
	names := make([]string, 0, len(p.allowed))
	for name := range p.allowed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Policy) isZero() bool {
	return p.allowed == nil
}
