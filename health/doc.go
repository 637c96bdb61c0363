// Package health provides health status reporting for the bridge.
//
// Status is an immutable value: the With* helpers return copies, so statuses
// can be fanned out to the health endpoint and logs without synchronization.
// Aggregate rolls component statuses up into a process-level status using
// worst-wins semantics (unhealthy > degraded > healthy).
//
// Handler exposes a status check as an HTTP endpoint. Degraded deliberately
// maps to 200: a degraded gateway keeps serving and individual requests
// surface their own failures.
package health
