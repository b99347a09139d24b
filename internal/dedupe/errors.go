package dedupe

import "errors"

// Sentinel errors for malformed input. These are the only errors the core
// surfaces to callers; execution-time network failures are contained and
// reported through boolean results instead (see package doc).
var (
	// ErrInvalidMergeRequest means a merge was requested with unusable
	// input: a group of fewer than two members, an explicit target that is
	// not in the group, duplicate ids within a group, or source == target.
	ErrInvalidMergeRequest = errors.New("invalid merge request")

	// ErrInvalidThreshold means a similarity threshold outside [0, 1] was
	// passed to a clustering operation. The operation does not run.
	ErrInvalidThreshold = errors.New("similarity threshold out of range")
)
