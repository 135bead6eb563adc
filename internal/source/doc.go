// Package source retrieves PAC script text from a local path, a file://
// URL or an http(s) URL.
//
// Remote scripts go through a resty client on a retryablehttp transport,
// guarded by a per-host circuit breaker and a rate limiter. Bodies that are
// not UTF-8 are decoded using the declared charset, or one detected from
// the content.
package source
