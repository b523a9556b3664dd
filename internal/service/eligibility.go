package service

import (
	"context"

	"academy/internal/domain"
	"academy/internal/repository"
)

// Classification is the eligibility verdict for a (learner, course) pair.
type Classification string

const (
	// ClassificationOwner means the learner created the course. Access is
	// implicit; payment must never be offered.
	ClassificationOwner Classification = "OWNER"

	// ClassificationAlreadyEnrolled means an active enrollment exists.
	ClassificationAlreadyEnrolled Classification = "ALREADY_ENROLLED"

	// ClassificationNotEnrolled means no active enrollment exists.
	ClassificationNotEnrolled Classification = "NOT_ENROLLED"
)

// EligibilityService classifies a learner against a course. Pure read: no
// side effects, no writes.
type EligibilityService struct {
	enrollmentRepo repository.EnrollmentRepository
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(enrollmentRepo repository.EnrollmentRepository) *EligibilityService {
	return &EligibilityService{enrollmentRepo: enrollmentRepo}
}

// Resolve classifies the learner. Only an ACTIVE enrollment counts as
// AlreadyEnrolled; pending records leave the learner NotEnrolled and are the
// workflow's concern.
func (s *EligibilityService) Resolve(ctx context.Context, learnerID string, course *domain.Course) (Classification, error) {
	if learnerID == "" {
		return "", ErrInvalidLearnerID
	}

	if course.CreatorID == learnerID {
		return ClassificationOwner, nil
	}

	enrollment, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, learnerID, course.ID)
	if err != nil {
		return "", err
	}

	if enrollment != nil && enrollment.Status == domain.EnrollmentStatusActive {
		return ClassificationAlreadyEnrolled, nil
	}

	return ClassificationNotEnrolled, nil
}
