package domain

import "time"

// EnrollmentStatus represents the current status of an enrollment.
type EnrollmentStatus string

const (
	// EnrollmentStatusActive means the learner has access to the course.
	EnrollmentStatusActive EnrollmentStatus = "ACTIVE"

	// EnrollmentStatusPendingReview means a manual payment was submitted and
	// awaits a human reviewer before access is granted.
	EnrollmentStatusPendingReview EnrollmentStatus = "PENDING_REVIEW"

	// EnrollmentStatusPendingGateway means a gateway checkout was initiated and
	// the webhook confirmation has not arrived yet.
	EnrollmentStatusPendingGateway EnrollmentStatus = "PENDING_GATEWAY"
)

// Enrollment is the authoritative fact that a learner may access a course.
// At most one ACTIVE enrollment exists per (learner, course) pair; the
// database unique index is the authority, not this struct.
type Enrollment struct {
	ID         string
	LearnerID  string
	CourseID   string
	Status     EnrollmentStatus
	PaymentRef string // empty for free courses
	CreatedAt  time.Time
}
