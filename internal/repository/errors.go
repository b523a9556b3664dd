package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyEnrolled is returned when an enrollment for the same
	// (learner, course) pair already exists. Callers on the free and gateway
	// paths must treat this as success, never as a user-facing failure.
	ErrAlreadyEnrolled = errors.New("enrollment already exists")
)
