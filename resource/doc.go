// Package resource provides a Controller that several training jobs can
// share to stay within one process-wide budget.
//
// It governs three resources:
//
//   - Memory: frame loads reserve their decoded size up front (fail-fast)
//   - Workers: every chunk task of every pass holds one worker slot
//   - IO: frame loads from object storage are throttled by a token bucket
//
// All methods are safe for concurrent use, and a nil *Controller is valid:
// every method becomes a no-op, so callers never need nil checks.
package resource
