// Package server wires pacd together and serves the HTTP API.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Build the helper library, script loader and resolver service
//  3. Setup HTTP routes and middleware
//  4. Load the PAC script, failing startup if it cannot be used
//  5. Watch local scripts for changes
//  6. Serve until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logging.NewDefault())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
