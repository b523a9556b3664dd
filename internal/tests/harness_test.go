package tests

import (
	"time"

	"academy/internal/domain"
	"academy/internal/service"
)

// fixture wires an EnrollmentService over mocks with production-like defaults.
type fixture struct {
	courses     *MockCourseRepository
	enrollments *MockEnrollmentRepository
	rateSource  *MockRateSource
	checkout    *MockCheckout
	notifier    *MockNotifier
	locator     *MockLocator
	svc         *service.EnrollmentService
}

const (
	testFallbackRate = 136.61
	testReviewWindow = 24 * time.Hour
)

func newFixture() *fixture {
	f := &fixture{
		courses:     NewMockCourseRepository(),
		enrollments: NewMockEnrollmentRepository(),
		rateSource:  &MockRateSource{Rate: 136.61},
		checkout:    &MockCheckout{RedirectURL: "https://checkout.gateway.example/session-1"},
		notifier:    &MockNotifier{},
		locator:     &MockLocator{CountryCode: "ET"},
	}

	eligibility := service.NewEligibilityService(f.enrollments)
	routing := service.NewRoutingService(f.locator, "ET")
	quotes := service.NewQuoteService(f.rateSource, testFallbackRate, "USD", "ETB")

	f.svc = service.NewEnrollmentService(
		f.courses,
		f.enrollments,
		eligibility,
		routing,
		quotes,
		f.checkout,
		f.notifier,
		"USD",
		testReviewWindow,
	)
	return f
}

func (f *fixture) addCourse(id, creatorID string, price float64) *domain.Course {
	course := &domain.Course{
		ID:            id,
		CreatorID:     creatorID,
		Title:         "Course " + id,
		Price:         price,
		FirstLessonID: "lesson-1",
		CreatedAt:     time.Now(),
	}
	f.courses.AddCourse(course)
	return course
}

func (f *fixture) addActiveEnrollment(learnerID, courseID string) {
	f.enrollments.AddEnrollment(&domain.Enrollment{
		ID:        "enr-" + learnerID + "-" + courseID,
		LearnerID: learnerID,
		CourseID:  courseID,
		Status:    domain.EnrollmentStatusActive,
		CreatedAt: time.Now(),
	})
}
