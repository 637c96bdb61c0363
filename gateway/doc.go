// Package gateway defines the external-surface contract of the bridge: the
// Gateway interface, its configuration, and validation.
//
// A gateway owns the two collections produced at startup, the ordered
// variable index and the node-id to type-descriptor index, and serves
// requests against them for the life of the process. Both collections are
// frozen before the gateway accepts traffic, so concurrent request handling
// reads them without locks.
package gateway
