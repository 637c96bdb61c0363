// Package retry provides exponential backoff with jitter for transient
// failures.
//
// In the bridge, retry applies exactly once: the initial session connect in
// cmd/uabridge, which uses the Quick schedule so a bridge that boots beside
// its server connects as soon as the server accepts sessions. Steady-state
// operations (browse, read, write) are issued a single time and their
// failures surface to the caller.
//
//	err := retry.Do(ctx, retry.Quick(), func() error {
//	    return opc.Connect(ctx)
//	})
//
// All operations respect context cancellation, both during the attempt and
// during the backoff delay. Errors wrapped with NonRetryable fail
// immediately.
package retry
