// Package config provides 12-factor configuration management for pacd.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - PAC: script location, result cache size, call stack limit, query timeout
//   - Fetch: remote script retrieval settings
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - PAC_SCRIPT, PAC_CACHE_SIZE, PAC_MAX_CALL_STACK, PAC_EVAL_TIMEOUT, PAC_ALLOW_EVAL, PAC_WATCH
//   - FETCH_TIMEOUT, FETCH_RETRIES, FETCH_USER_AGENT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
