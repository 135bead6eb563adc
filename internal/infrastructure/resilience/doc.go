/*
Package resilience provides a circuit breaker for remote PAC script hosts.

# Overview

A script served from an unreachable WPAD host should fail fast instead of
stalling every reload behind the full retry budget. The breaker opens after
repeated failures, rejects calls while open, and lets a limited number of
probes through once the open timeout elapses.

# Usage

	breakers := resilience.NewGroup(resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	err := breakers.Get(u.Host).Do(ctx, func(ctx context.Context) error {
		return fetch(ctx, u)
	})

Context cancellation is not counted as a failure unless IsFailure says so.

# States

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                              Open
*/
package resilience
