package tests

import (
	"context"
	"testing"
	"time"

	"academy/internal/domain"
	"academy/internal/service"
)

// ──────────────────────────────────────────────
// ELIGIBILITY CLASSIFICATION
// ──────────────────────────────────────────────

func TestEligibility_Owner(t *testing.T) {
	t.Parallel()

	enrollments := NewMockEnrollmentRepository()
	eligibility := service.NewEligibilityService(enrollments)

	course := &domain.Course{ID: "c1", CreatorID: "creator-1", Price: 50}

	got, err := eligibility.Resolve(context.Background(), "creator-1", course)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != service.ClassificationOwner {
		t.Errorf("expected OWNER, got %s", got)
	}
}

func TestEligibility_AlreadyEnrolled(t *testing.T) {
	t.Parallel()

	enrollments := NewMockEnrollmentRepository()
	enrollments.AddEnrollment(&domain.Enrollment{
		ID:        "e1",
		LearnerID: "learner-1",
		CourseID:  "c1",
		Status:    domain.EnrollmentStatusActive,
		CreatedAt: time.Now(),
	})
	eligibility := service.NewEligibilityService(enrollments)

	course := &domain.Course{ID: "c1", CreatorID: "creator-1", Price: 50}

	got, err := eligibility.Resolve(context.Background(), "learner-1", course)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != service.ClassificationAlreadyEnrolled {
		t.Errorf("expected ALREADY_ENROLLED, got %s", got)
	}
}

func TestEligibility_PendingRecordIsNotEnrolled(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		status domain.EnrollmentStatus
	}{
		{name: "pending manual review", status: domain.EnrollmentStatusPendingReview},
		{name: "pending gateway confirmation", status: domain.EnrollmentStatusPendingGateway},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			enrollments := NewMockEnrollmentRepository()
			enrollments.AddEnrollment(&domain.Enrollment{
				ID:        "e1",
				LearnerID: "learner-1",
				CourseID:  "c1",
				Status:    tc.status,
				CreatedAt: time.Now(),
			})
			eligibility := service.NewEligibilityService(enrollments)

			course := &domain.Course{ID: "c1", CreatorID: "creator-1", Price: 50}

			got, err := eligibility.Resolve(context.Background(), "learner-1", course)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != service.ClassificationNotEnrolled {
				t.Errorf("expected NOT_ENROLLED, got %s", got)
			}
		})
	}
}

func TestEligibility_NotEnrolled(t *testing.T) {
	t.Parallel()

	eligibility := service.NewEligibilityService(NewMockEnrollmentRepository())

	course := &domain.Course{ID: "c1", CreatorID: "creator-1", Price: 50}

	got, err := eligibility.Resolve(context.Background(), "learner-1", course)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != service.ClassificationNotEnrolled {
		t.Errorf("expected NOT_ENROLLED, got %s", got)
	}
}

func TestEligibility_EmptyLearnerID_Fails(t *testing.T) {
	t.Parallel()

	eligibility := service.NewEligibilityService(NewMockEnrollmentRepository())

	course := &domain.Course{ID: "c1", CreatorID: "creator-1"}

	_, err := eligibility.Resolve(context.Background(), "", course)
	if err == nil {
		t.Fatal("expected error for empty learner id")
	}
}
