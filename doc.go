// Package uabridge bridges an OPC UA address space to a plain HTTP
// request/response interface.
//
// At startup the bridge connects to one OPC UA server, walks the address
// space from a root node to enumerate every variable, resolves each
// variable's built-in data type to a canonical descriptor with a write
// coercion rule, and then serves the variables over HTTP:
//
//	GET  /      list all variable node ids
//	GET  /{id}  read a variable's current value
//	PUT  /{id}  write a variable (body coerced to the variable's type)
//
// plus /healthz, /metrics (Prometheus), and /ui/ for static assets.
//
// The variable and type indexes are built once, before the listener accepts
// traffic, and are immutable for the life of the process. Startup failures
// (connect, discovery, resolution) abort the process; request failures map
// to HTTP status codes and never crash it.
package uabridge
