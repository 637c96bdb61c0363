// Package errors provides standardized error handling patterns for uabridge.
//
// # Overview
//
// The package implements a three-class error classification system: Transient
// (temporary, retryable), Invalid (bad input, non-retryable), and Fatal
// (unrecoverable, abort startup).
//
// Classification drives two decisions in the bridge: whether a startup-phase
// failure (connect, discovery, type resolution) aborts the process, and which
// HTTP status code a request-phase failure maps to in the gateway.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if _, ok := types[id]; !ok {
//	    return errors.ErrUnknownVariable
//	}
//
// Wrap errors with component context:
//
//	if err := sess.Browse(ctx, nodeID); err != nil {
//	    return errors.WrapFatal(err, "Walker", "Discover", "browse "+nodeID)
//	}
//
// Check classification at the decision point:
//
//	if errors.IsFatal(err) {
//	    return err // abort startup, never serve a partial index
//	}
//
// The classification system supports errors.Is(), errors.As(), and wrapping
// chains throughout.
package errors
