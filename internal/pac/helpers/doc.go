// Package helpers is the default PAC function library handed to the
// sandbox: the Netscape set (dnsResolve, isInNet, shExpMatch, ...) and the
// Microsoft IPv6 extensions (dnsResolveEx, isInNetEx, sortIpAddressList,
// ...).
//
// Name resolution, local address discovery and the clock are injectable so
// scripts can be evaluated deterministically in tests. Every function
// degrades to a false or empty answer on failure; the engine never sees an
// error from here.
package helpers
