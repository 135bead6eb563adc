// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *zap.Logger obtained from Logger.Component so every
// line carries its subsystem name (pacd.pac, pacd.source, pacd.http).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	log := logger.Component("pac")
//	log.Warn("PAC script failed, using DIRECT", zap.String("url", u), zap.Error(err))
package logging
