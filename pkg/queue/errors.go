package queue

import "errors"

var (
	// ErrDirectory reports a project directory that could not be created
	// or used.
	ErrDirectory = errors.New("project directory not usable")

	// ErrSinkClosed reports a write to a closed Sink. A closed Sink stays
	// closed; callers wanting to append again open a new one.
	ErrSinkClosed = errors.New("sink is closed")

	// ErrCleanup reports a failed segment unlink during UnlinkTo.
	ErrCleanup = errors.New("segment cleanup failed")

	// ErrBadName reports a queue name outside [a-z0-9-_]{1,64}.
	ErrBadName = errors.New("invalid queue name")
)
