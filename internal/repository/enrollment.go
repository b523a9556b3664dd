package repository

import (
	"context"

	"academy/internal/domain"
)

// EnrollmentRepository defines the persistence operations for enrollments.
// The database unique index on (learner_id, course_id) is the authority for
// the at-most-one-active invariant; Create surfaces it as ErrAlreadyEnrolled.
type EnrollmentRepository interface {
	// Create persists a new enrollment. Returns ErrAlreadyEnrolled when a
	// record for the same (learner, course) pair already exists.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// GetByLearnerAndCourse retrieves the enrollment for a (learner, course)
	// pair. Returns nil, nil if none exists.
	GetByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*domain.Enrollment, error)

	// GetByPaymentRef retrieves the enrollment carrying the given payment
	// reference. Returns nil, nil if none exists.
	GetByPaymentRef(ctx context.Context, ref string) (*domain.Enrollment, error)

	// GetByLearner lists all enrollments for a learner.
	GetByLearner(ctx context.Context, learnerID string) ([]*domain.Enrollment, error)

	// UpdateStatus updates the status of an enrollment. Returns ErrNotFound
	// if the enrollment does not exist.
	UpdateStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error

	// UpdatePaymentRef replaces the payment reference on an enrollment.
	// Returns ErrNotFound if the enrollment does not exist.
	UpdatePaymentRef(ctx context.Context, id string, ref string) error
}
