package engine

import "errors"

// Sentinel errors for the failure classes a bake attempt can surface.
// Callers match with errors.Is.
var (
	// ErrNotFound is returned when an input path is missing or is not the
	// expected kind of filesystem entry (e.g. a scan root that is not a
	// directory).
	ErrNotFound = errors.New("not found")

	// ErrCodec covers open, decode, and encode failures, including inputs
	// whose payload does not match any recognized image signature.
	ErrCodec = errors.New("codec failure")

	// ErrIO covers filesystem operations around the codec: backup copy,
	// rename, delete.
	ErrIO = errors.New("io failure")

	// ErrIntegrity is returned when the codec reported success but the temp
	// file is missing.
	ErrIntegrity = errors.New("integrity failure")
)
