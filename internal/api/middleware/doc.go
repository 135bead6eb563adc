// Package middleware provides the HTTP middleware stack of the pacd API.
//
// Middleware stack includes:
//   - RequestID: ULID request identifiers echoed in X-Request-ID
//   - AccessLog: structured request logging through zap
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle client cleanup
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.AccessLog(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
