// Package publisher runs the collection loop.
//
// Each cycle collects a metrics record, resolves the system info and
// publishes both to the snapshot store as one unit. A cycle is bounded by
// a timeout and isolated by panic recovery; a failed cycle is logged,
// counted and followed by a longer backoff, and the previous snapshot stays
// visible. Run only returns when its context is canceled.
//
// After the first successful publish the publisher tells systemd the
// service is ready (Type=notify units) and, when a watchdog is configured,
// pings it after every successful cycle.
//
// Cycle outcomes and the latest readings are exported as Prometheus
// metrics with the jetson_ prefix.
package publisher
