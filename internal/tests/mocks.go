package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"academy/internal/domain"
	"academy/internal/gateway"
	"academy/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK COURSE REPOSITORY
// ──────────────────────────────────────────────

// MockCourseRepository is a mock implementation of CourseRepository.
type MockCourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*domain.Course

	// Error injection
	GetError error
}

// NewMockCourseRepository creates a new mock course repository.
func NewMockCourseRepository() *MockCourseRepository {
	return &MockCourseRepository{
		courses: make(map[string]*domain.Course),
	}
}

// AddCourse adds a course to the mock repository.
func (m *MockCourseRepository) AddCourse(course *domain.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = course
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *course
	return &copy, nil
}

func (m *MockCourseRepository) GetAll(ctx context.Context) ([]*domain.Course, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Course, 0, len(m.courses))
	for _, c := range m.courses {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ENROLLMENT REPOSITORY
// ──────────────────────────────────────────────

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository.
// Create enforces the (learner, course) uniqueness the real database index
// provides, so race tests behave like production.
type MockEnrollmentRepository struct {
	mu          sync.Mutex
	enrollments map[string]*domain.Enrollment // keyed learnerID|courseID

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	GetError    error
	UpdateError error

	// MissReads makes the next N GetByLearnerAndCourse calls report no record,
	// simulating a racing twin whose insert lands between the read and the
	// create.
	MissReads int32
}

// NewMockEnrollmentRepository creates a new mock enrollment repository.
func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{
		enrollments: make(map[string]*domain.Enrollment),
	}
}

// AddEnrollment seeds an enrollment record.
func (m *MockEnrollmentRepository) AddEnrollment(e *domain.Enrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[e.LearnerID+"|"+e.CourseID] = e
}

// Count returns the number of stored records.
func (m *MockEnrollmentRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enrollments)
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := e.LearnerID + "|" + e.CourseID
	if _, exists := m.enrollments[key]; exists {
		return repository.ErrAlreadyEnrolled
	}
	copy := *e
	m.enrollments[key] = &copy
	return nil
}

func (m *MockEnrollmentRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*domain.Enrollment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if atomic.LoadInt32(&m.MissReads) > 0 {
		atomic.AddInt32(&m.MissReads, -1)
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[learnerID+"|"+courseID]
	if !ok {
		return nil, nil
	}
	copy := *e
	return &copy, nil
}

func (m *MockEnrollmentRepository) GetByPaymentRef(ctx context.Context, ref string) (*domain.Enrollment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.PaymentRef == ref && ref != "" {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockEnrollmentRepository) GetByLearner(ctx context.Context, learnerID string) ([]*domain.Enrollment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Enrollment
	for _, e := range m.enrollments {
		if e.LearnerID == learnerID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockEnrollmentRepository) UpdateStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockEnrollmentRepository) UpdatePaymentRef(ctx context.Context, id string, ref string) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.ID == id {
			e.PaymentRef = ref
			return nil
		}
	}
	return repository.ErrNotFound
}

// Get returns a record for test assertions.
func (m *MockEnrollmentRepository) Get(learnerID, courseID string) *domain.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrollments[learnerID+"|"+courseID]
}

// ──────────────────────────────────────────────
// MOCK RATE SOURCE
// ──────────────────────────────────────────────

// MockRateSource is a mock implementation of RateSource.
type MockRateSource struct {
	Rate float64
	Err  error

	SpotCallCount int32
}

func (m *MockRateSource) Spot(ctx context.Context, base, target string) (float64, error) {
	atomic.AddInt32(&m.SpotCallCount, 1)
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Rate, nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY CHECKOUT
// ──────────────────────────────────────────────

// MockCheckout is a mock implementation of gateway.Checkout.
type MockCheckout struct {
	RedirectURL string
	Err         error

	InitializeCallCount int32
	LastRequest         gateway.CheckoutRequest
}

func (m *MockCheckout) Initialize(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	atomic.AddInt32(&m.InitializeCallCount, 1)
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return &gateway.CheckoutSession{TxRef: req.TxRef, RedirectURL: m.RedirectURL}, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier counts notification deliveries.
type MockNotifier struct {
	ActiveCallCount    int32
	PendingCallCount   int32
	AttemptCallCount   int32
	ConfirmedCallCount int32
}

func (m *MockNotifier) NotifyEnrollmentActive(learnerID string, course *domain.Course) {
	atomic.AddInt32(&m.ActiveCallCount, 1)
}

func (m *MockNotifier) NotifyPaymentAttempted(attempt domain.PaymentAttempt) {
	atomic.AddInt32(&m.AttemptCallCount, 1)
}

func (m *MockNotifier) NotifyEnrollmentPending(learnerID string, course *domain.Course, reviewWindow time.Duration) {
	atomic.AddInt32(&m.PendingCallCount, 1)
}

func (m *MockNotifier) NotifyPaymentConfirmed(learnerID, courseID, paymentRef string) {
	atomic.AddInt32(&m.ConfirmedCallCount, 1)
}

// ──────────────────────────────────────────────
// MOCK LOCATOR
// ──────────────────────────────────────────────

// MockLocator is a mock implementation of geo.Locator.
type MockLocator struct {
	CountryCode string
}

func (m *MockLocator) Country(ctx context.Context, learnerID string) string {
	return m.CountryCode
}
