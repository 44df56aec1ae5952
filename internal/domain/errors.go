package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrInvalidBucket is returned by SetAppStandbyBucket when the
	// caller supplies a bucket value outside the five defined buckets.
	ErrInvalidBucket = errors.New("standby: invalid bucket value")

	// ErrInvalidReason is returned when a reason string does not parse
	// to one of the five known reasons (§7 "Invalid bucket value").
	ErrInvalidReason = errors.New("standby: invalid reason value")

	// ErrUnknownUser names a user that the injector does not report as
	// currently running. No engine operation returns it: queries accept
	// any user id.
	ErrUnknownUser = errors.New("standby: unknown or not-running user")

	// ErrSnapshotVersion is returned by the checkpoint store when a
	// persisted snapshot's format version is newer than this binary
	// understands.
	ErrSnapshotVersion = errors.New("standby: snapshot format version unsupported")

	// ErrEngineClosed is returned when a caller submits to an engine
	// whose task queue has already been shut down.
	ErrEngineClosed = errors.New("standby: engine is closed")
)
