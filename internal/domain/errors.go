package domain

import "errors"

var (
	// ErrAlreadyActive signals a clock-in while the user has an open session.
	ErrAlreadyActive = errors.New("user already has an active session")

	// ErrNoActiveSession signals a clock-out or status with no open session.
	ErrNoActiveSession = errors.New("user has no active session")

	// ErrActivityNotFound signals a rename whose source label matches none of
	// the user's sessions or archive rows.
	ErrActivityNotFound = errors.New("no sessions found with that activity")

	// ErrEmptyActivity signals an activity label that canonicalizes to the
	// empty string.
	ErrEmptyActivity = errors.New("activity label is empty")

	// ErrClockSkew signals a session whose start lies after its end. The
	// session is left open for the operator to resolve.
	ErrClockSkew = errors.New("session start is after its end")
)
