// Package session defines the capability the bridge consumes from the OPC UA
// protocol client, and provides the gopcua-backed implementation of it.
//
// The Session interface is the boundary between the bridge's own logic
// (address-space walking, type resolution, the HTTP gateway) and the protocol
// stack. The walker, resolver, and gateway depend only on the interface, so
// tests substitute an in-memory fake and never open a connection.
//
// Client is the production implementation: one shared gopcua connection with
// security disabled (the bridge targets trusted plant networks; transport
// hardening is out of scope). Connect applies the bridge's only retry policy;
// browse, read, and write are issued exactly once per request.
package session
