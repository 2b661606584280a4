// Package monitoring exposes delivery counters of an async logger as
// Prometheus metrics.
//
// Metrics are registered on a private registry so several loggers, and
// tests, can coexist in one process:
//
//	m := monitoring.NewMetrics()
//	l := logger.New(sinks, logger.WithObserver(m))
//	m.TrackQueue(l)
package monitoring
