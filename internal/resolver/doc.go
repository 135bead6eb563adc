// Package resolver keeps the active PAC evaluator for the daemon. It loads
// the configured script, swaps in a fresh evaluator on reload, keeps the
// previous one when a reload fails, and can watch a local script for
// changes.
package resolver
