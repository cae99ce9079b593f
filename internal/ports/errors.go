package ports

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique identity (username, email) is already taken.
	ErrConflict = errors.New("conflict")

	// ErrConcurrentUpdate is returned when an optimistic-concurrency check fails.
	ErrConcurrentUpdate = errors.New("concurrent update")

	// ErrHasDependents is returned when a delete is blocked by rows that still reference the target.
	ErrHasDependents = errors.New("row is still referenced")

	// ErrRoleMissing is returned when a role to assign is not configured in storage.
	ErrRoleMissing = errors.New("role not configured")
)
