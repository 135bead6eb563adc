// Package http serves the pacd query API.
//
// Routes registered by Register:
//
//	GET  /health        liveness plus whether a script is active
//	GET  /v1/proxy      proxy plan for ?url=<target>
//	GET  /v1/script     description of the active script
//	POST /v1/reload     reload the script from its location
//	GET  /v1/stats      evaluation counters as JSON
package http
