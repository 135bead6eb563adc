/*
Package monitoring provides metrics collection for the PAC daemon.

# Overview

Metrics are registered on a private Prometheus registry per Metrics value,
so tests and multiple daemons in one process never collide on the default
registry.

# Features

- PAC query outcomes (cached, evaluated, no_result, fallback) and latency
- Result cache hits and misses
- Query-time failure kinds (script, validation, sandbox, interrupted)
- Script load successes and failures, cache-enabled gauge
- HTTP request metrics for the daemon API

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	// ... evaluate ...
	timer.Stop(monitoring.OutcomeEvaluated)

Every recorder accepts a nil receiver so components can run without
metrics.
*/
package monitoring
