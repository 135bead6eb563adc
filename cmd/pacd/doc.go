// Package main is the pacd command.
//
// pacd evaluates Proxy Auto-Config scripts in a sandboxed JavaScript engine.
// It runs either as a daemon answering proxy queries over HTTP or as a one
// shot tool.
//
// Commands:
//
//	pacd serve                  serve the HTTP query API
//	pacd eval <url>...          print the proxy plan for each URL
//	pacd check                  validate the script and describe it
//	pacd version                print version information
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//
// Example:
//
//	pacd eval --script ./proxy.pac https://www.example.com/
//	PAC_SCRIPT=http://wpad/wpad.dat pacd serve --port 8080
package main
