/*
Package sandbox runs PAC scripts inside an isolated goja runtime.

# Overview

A Runtime owns one goja VM into which a single PAC script has been loaded.
The only host surface the script can reach is the helper object bound as
PacHelpers, plus the standard PAC functions (dnsResolve, isInNet, ...) that
a fixed auxiliary script defines on top of it.

# Security Model

Host lookups go through a Policy, a closed allow-list of capability names:

  - require(name) resolves only allow-listed names
  - Packages, java, javax, org, com, net and sun are guarded namespaces;
    reaching a class-like member (e.g. java.lang.System) is a lookup
  - importClass, importPackage and JavaImporter always fail
  - process, module and exports are undefined; eval is disabled by default

A denied lookup throws a TypeError inside the script and is recorded on the
runtime. The recorded AccessDeniedError is what Invoke returns, even if the
script catches the exception.

The helper object is built from explicit Go closures that only return
primitives, so nothing reachable from it leads back into the host process.

# Usage Example

	rt, err := sandbox.New(ctx, script, helpers, sandbox.DefaultConfig())
	if err != nil {
		return err
	}
	defer rt.Close()

	value, err := rt.Invoke(ctx, "FindProxyForURL", "http://example.com/", "example.com")

# Concurrency

goja VMs are not goroutine safe. Runtime serializes Invoke and HasFunction
with a mutex; the context passed to Invoke interrupts a running script.
*/
package sandbox
