/*
Package pac evaluates Proxy Auto-Config scripts.

An Evaluator owns one sandboxed script, the entry point it exposes and, for
scripts that do not depend on the time of day, a bounded result cache.
Queries never fail: script exceptions, sandbox violations, timeouts and
malformed results all resolve to a single DIRECT choice and are reported
through logs, metrics and Result.Err.

# Usage

	eval, err := pac.New(script, helpers.New(helpers.Options{}), pac.DefaultConfig())
	if err != nil {
		return err // *pac.ParsingError
	}
	plan := eval.FindProxies(target)

# Concurrency

An Evaluator may be shared between goroutines. Script invocations are
serialized by the underlying sandbox runtime; cache lookups happen outside
that lock.

A script change means building a new Evaluator; there is no reload in place.
*/
package pac
