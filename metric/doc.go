// Package metric provides the bridge's Prometheus instrumentation.
//
// A dedicated registry keeps the exposition surface limited to the bridge's
// own metrics plus the Go runtime collectors. The gateway counts requests by
// operation and outcome and times every session round trip; startup records
// discovery duration and index size once.
package metric
