package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"academy/internal/domain"
	"academy/internal/gateway"
	"academy/internal/repository"
)

// successAckDelay is how long clients hold the success acknowledgment on
// screen before navigating into the course.
const successAckDelay = 1500 * time.Millisecond

// EnrollOutcome discriminates the result of an enrollment operation.
type EnrollOutcome string

const (
	// OutcomeGranted means the learner has access. Covers owner access,
	// existing enrollment, a fresh free enrollment, and a lost race whose
	// winner already enrolled the learner.
	OutcomeGranted EnrollOutcome = "GRANTED"

	// OutcomePaymentChoice means the learner must pick a payment channel.
	OutcomePaymentChoice EnrollOutcome = "PAYMENT_CHOICE"

	// OutcomeRedirect means the browser must navigate to the gateway checkout.
	OutcomeRedirect EnrollOutcome = "REDIRECT"

	// OutcomePendingReview means a manual payment awaits human review.
	OutcomePendingReview EnrollOutcome = "PENDING_REVIEW"
)

// EnrollResult is the discriminated result of Enroll, StartGatewayCheckout
// and SubmitManualPayment.
type EnrollResult struct {
	Outcome       EnrollOutcome
	State         FlowState
	NewlyEnrolled bool
	NextURL       string
	RedirectAfter time.Duration   // hold the success acknowledgment this long before navigating
	RedirectURL   string          // gateway checkout URL, Redirect only
	Channels      []ChannelOption // PaymentChoice only
	Quote         *domain.Quote   // manual channel only
	ReviewWindow  time.Duration   // PendingReview only
}

// Notifier delivers fire-and-forget learner notifications.
type Notifier interface {
	NotifyEnrollmentActive(learnerID string, course *domain.Course)
	NotifyEnrollmentPending(learnerID string, course *domain.Course, reviewWindow time.Duration)
	NotifyPaymentAttempted(attempt domain.PaymentAttempt)
	NotifyPaymentConfirmed(learnerID, courseID, paymentRef string)
}

// EnrollmentService orchestrates course-access arbitration: eligibility,
// payment routing, and the three payment branches. Each call is one stateless
// workflow instance; the database unique index arbitrates races between
// concurrent instances.
type EnrollmentService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	eligibility    *EligibilityService
	routing        *RoutingService
	quotes         *QuoteService
	checkout       gateway.Checkout
	notifier       Notifier
	baseCurrency   string
	reviewWindow   time.Duration
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	eligibility *EligibilityService,
	routing *RoutingService,
	quotes *QuoteService,
	checkout gateway.Checkout,
	notifier Notifier,
	baseCurrency string,
	reviewWindow time.Duration,
) *EnrollmentService {
	return &EnrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		eligibility:    eligibility,
		routing:        routing,
		quotes:         quotes,
		checkout:       checkout,
		notifier:       notifier,
		baseCurrency:   baseCurrency,
		reviewWindow:   reviewWindow,
	}
}

// Enroll is the single entry point for an enrollment attempt. It resolves
// eligibility, short-circuits when access already exists, enrolls immediately
// for free courses, and otherwise returns the payment channel choice. It
// never initiates a payment itself.
func (s *EnrollmentService) Enroll(ctx context.Context, learnerID, courseID string) (*EnrollResult, error) {
	if learnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	if courseID == "" {
		return nil, ErrInvalidCourseID
	}

	f := newFlow()
	if err := f.advance(EventBegin); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	classification, err := s.eligibility.Resolve(ctx, learnerID, course)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	// A manual payment already under review is reported as pending, not
	// routed into paying twice.
	if classification == ClassificationNotEnrolled {
		existing, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, learnerID, courseID)
		if err != nil {
			_ = f.advance(EventStepFailed)
			return nil, err
		}
		if existing != nil && existing.Status == domain.EnrollmentStatusPendingReview {
			if err := f.advance(EventReviewDetected); err != nil {
				return nil, err
			}
			return &EnrollResult{
				Outcome:      OutcomePendingReview,
				State:        f.state,
				NextURL:      "/dashboard",
				ReviewWindow: s.reviewWindow,
			}, nil
		}
	}

	decision, channels := s.routing.Route(ctx, course, classification, learnerID)

	switch decision {
	case DecisionAlreadyGranted:
		if err := f.advance(EventEligible); err != nil {
			return nil, err
		}
		return &EnrollResult{
			Outcome: OutcomeGranted,
			State:   f.state,
			NextURL: courseURL(course),
		}, nil

	case DecisionFreeEnroll:
		if err := f.advance(EventFreeCourse); err != nil {
			return nil, err
		}
		return s.enrollFree(ctx, f, learnerID, course)

	default:
		if err := f.advance(EventPaymentRequired); err != nil {
			return nil, err
		}
		return &EnrollResult{
			Outcome:  OutcomePaymentChoice,
			State:    f.state,
			Channels: channels,
		}, nil
	}
}

// enrollFree executes the zero-amount enrollment branch.
func (s *EnrollmentService) enrollFree(ctx context.Context, f *flow, learnerID string, course *domain.Course) (*EnrollResult, error) {
	enrollment := &domain.Enrollment{
		ID:        uuid.New().String(),
		LearnerID: learnerID,
		CourseID:  course.ID,
		Status:    domain.EnrollmentStatusActive,
		CreatedAt: time.Now(),
	}

	err := s.enrollmentRepo.Create(ctx, enrollment)
	switch {
	case err == nil:
		if err := f.advance(EventSubmitted); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.NotifyEnrollmentActive(learnerID, course)
		}
		return &EnrollResult{
			Outcome:       OutcomeGranted,
			State:         f.state,
			NewlyEnrolled: true,
			NextURL:       firstLessonURL(course),
			RedirectAfter: successAckDelay,
		}, nil

	case errors.Is(err, repository.ErrAlreadyEnrolled):
		// A racing twin enrolled first. Same outcome, no error, and the
		// winner already owns the notification.
		if err := f.advance(EventDuplicate); err != nil {
			return nil, err
		}
		return &EnrollResult{
			Outcome: OutcomeGranted,
			State:   f.state,
			NextURL: firstLessonURL(course),
		}, nil

	default:
		_ = f.advance(EventStepFailed)
		return nil, err
	}
}

// StartGatewayCheckout initiates the card-gateway payment branch. Eligibility
// is re-resolved first: payment is never attempted unless the learner is
// confirmed NotEnrolled.
func (s *EnrollmentService) StartGatewayCheckout(ctx context.Context, learnerID, courseID, email, name string) (*EnrollResult, error) {
	if learnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	if courseID == "" {
		return nil, ErrInvalidCourseID
	}

	f := newFlow()
	if err := f.advance(EventBegin); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	classification, err := s.eligibility.Resolve(ctx, learnerID, course)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}
	if classification != ClassificationNotEnrolled {
		if err := f.advance(EventEligible); err != nil {
			return nil, err
		}
		return &EnrollResult{
			Outcome: OutcomeGranted,
			State:   f.state,
			NextURL: courseURL(course),
		}, nil
	}

	if course.Free() {
		_ = f.advance(EventStepFailed)
		return nil, ErrCourseNotPayable
	}

	if err := f.advance(EventPaymentRequired); err != nil {
		return nil, err
	}
	if err := f.advance(EventChoseGateway); err != nil {
		return nil, err
	}

	txRef := uuid.New().String()

	enrollment, err := s.reserveGatewayEnrollment(ctx, learnerID, course.ID, txRef)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			// Lost a race to an instance that already granted access.
			if err := f.advance(EventDuplicate); err != nil {
				return nil, err
			}
			return &EnrollResult{
				Outcome: OutcomeGranted,
				State:   f.state,
				NextURL: courseURL(course),
			}, nil
		}
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	session, err := s.checkout.Initialize(ctx, gateway.CheckoutRequest{
		TxRef:    enrollment.PaymentRef,
		Amount:   course.Price,
		Currency: s.baseCurrency,
		Email:    email,
		Name:     name,
	})
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	if err := f.advance(EventRedirectIssued); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyPaymentAttempted(domain.PaymentAttempt{
			CourseID:  course.ID,
			LearnerID: learnerID,
			Amount:    course.Price,
			Currency:  s.baseCurrency,
			Channel:   domain.ChannelGateway,
			Outcome:   domain.PaymentOutcomeRedirected,
		})
	}
	return &EnrollResult{
		Outcome:     OutcomeRedirect,
		State:       f.state,
		RedirectURL: session.RedirectURL,
	}, nil
}

// reserveGatewayEnrollment creates or reuses the PENDING_GATEWAY record that
// the webhook later activates by payment reference.
func (s *EnrollmentService) reserveGatewayEnrollment(ctx context.Context, learnerID, courseID, txRef string) (*domain.Enrollment, error) {
	existing, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case domain.EnrollmentStatusActive:
			return nil, repository.ErrAlreadyEnrolled
		case domain.EnrollmentStatusPendingReview:
			// A conflicting payment state, not a racing duplicate; surfaced.
			return nil, ErrReviewPending
		default:
			// An abandoned checkout; reuse the record with a fresh reference.
			if err := s.enrollmentRepo.UpdatePaymentRef(ctx, existing.ID, txRef); err != nil {
				return nil, err
			}
			existing.PaymentRef = txRef
			return existing, nil
		}
	}

	enrollment := &domain.Enrollment{
		ID:         uuid.New().String(),
		LearnerID:  learnerID,
		CourseID:   courseID,
		Status:     domain.EnrollmentStatusPendingGateway,
		PaymentRef: txRef,
		CreatedAt:  time.Now(),
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			// A racing twin inserted between the read and the create. Re-read
			// and handle its record like any other existing one: access is
			// reported only if the twin's payment actually completed, an
			// unpaid PENDING_GATEWAY record is reused for a fresh checkout.
			return s.reserveGatewayEnrollment(ctx, learnerID, courseID, txRef)
		}
		return nil, err
	}
	return enrollment, nil
}

// QuoteForCourse computes the manual-channel local amount for a paid course.
func (s *EnrollmentService) QuoteForCourse(ctx context.Context, courseID string) (*domain.Quote, error) {
	if courseID == "" {
		return nil, ErrInvalidCourseID
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Free() {
		return nil, ErrCourseNotPayable
	}

	quote := s.quotes.Quote(ctx, course.Price)
	return &quote, nil
}

// SubmitManualPayment executes the manual-local payment branch: the learner
// submits proof, the enrollment is created pending human review, and access
// stays closed until a reviewer confirms receipt.
func (s *EnrollmentService) SubmitManualPayment(ctx context.Context, learnerID, courseID string, proof domain.ManualProof) (*EnrollResult, error) {
	if learnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	if courseID == "" {
		return nil, ErrInvalidCourseID
	}
	if proof.Reference == "" || proof.PayerName == "" {
		return nil, ErrIncompleteProof
	}

	f := newFlow()
	if err := f.advance(EventBegin); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	classification, err := s.eligibility.Resolve(ctx, learnerID, course)
	if err != nil {
		_ = f.advance(EventStepFailed)
		return nil, err
	}
	if classification != ClassificationNotEnrolled {
		if err := f.advance(EventEligible); err != nil {
			return nil, err
		}
		return &EnrollResult{
			Outcome: OutcomeGranted,
			State:   f.state,
			NextURL: courseURL(course),
		}, nil
	}

	if course.Free() {
		_ = f.advance(EventStepFailed)
		return nil, ErrCourseNotPayable
	}

	if err := f.advance(EventPaymentRequired); err != nil {
		return nil, err
	}
	if err := f.advance(EventChoseManual); err != nil {
		return nil, err
	}

	// The quote is computed for presentation and record context; by contract
	// it cannot fail, so the flow always reaches submission.
	quote := s.quotes.Quote(ctx, course.Price)
	if err := f.advance(EventQuoteReady); err != nil {
		return nil, err
	}

	if err := s.persistManualSubmission(ctx, learnerID, course.ID, proof); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			if err := f.advance(EventProofAccepted); err != nil {
				return nil, err
			}
			return s.pendingResult(f, &quote), nil
		}
		_ = f.advance(EventStepFailed)
		return nil, err
	}

	if err := f.advance(EventProofAccepted); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyPaymentAttempted(domain.PaymentAttempt{
			CourseID:  course.ID,
			LearnerID: learnerID,
			Amount:    course.Price,
			Currency:  s.baseCurrency,
			Channel:   domain.ChannelManual,
			Outcome:   domain.PaymentOutcomeSubmitted,
		})
		s.notifier.NotifyEnrollmentPending(learnerID, course, s.reviewWindow)
	}
	return s.pendingResult(f, &quote), nil
}

// persistManualSubmission creates the PENDING_REVIEW record, absorbing
// duplicates and channel switches on an existing record.
func (s *EnrollmentService) persistManualSubmission(ctx context.Context, learnerID, courseID string, proof domain.ManualProof) error {
	existing, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		return err
	}

	if existing != nil {
		switch existing.Status {
		case domain.EnrollmentStatusActive:
			return repository.ErrAlreadyEnrolled
		case domain.EnrollmentStatusPendingReview:
			// Double submission of the same proof; already under review.
			return repository.ErrAlreadyEnrolled
		default:
			// Learner abandoned a gateway checkout and switched channels.
			if err := s.enrollmentRepo.UpdatePaymentRef(ctx, existing.ID, proof.Reference); err != nil {
				return err
			}
			return s.enrollmentRepo.UpdateStatus(ctx, existing.ID, domain.EnrollmentStatusPendingReview)
		}
	}

	return s.enrollmentRepo.Create(ctx, &domain.Enrollment{
		ID:         uuid.New().String(),
		LearnerID:  learnerID,
		CourseID:   courseID,
		Status:     domain.EnrollmentStatusPendingReview,
		PaymentRef: proof.Reference,
		CreatedAt:  time.Now(),
	})
}

// ActivateFromWebhook flips a gateway-pending enrollment to active once the
// gateway confirms payment. Idempotent: replayed webhooks are no-ops.
func (s *EnrollmentService) ActivateFromWebhook(ctx context.Context, paymentRef string) error {
	if paymentRef == "" {
		return ErrUnknownPayment
	}

	enrollment, err := s.enrollmentRepo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return ErrUnknownPayment
	}
	if enrollment.Status == domain.EnrollmentStatusActive {
		return nil
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusActive); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyPaymentConfirmed(enrollment.LearnerID, enrollment.CourseID, paymentRef)
	}
	return nil
}

// ListForLearner returns the learner's enrollments for the dashboard.
func (s *EnrollmentService) ListForLearner(ctx context.Context, learnerID string) ([]*domain.Enrollment, error) {
	if learnerID == "" {
		return nil, ErrInvalidLearnerID
	}
	return s.enrollmentRepo.GetByLearner(ctx, learnerID)
}

func (s *EnrollmentService) pendingResult(f *flow, quote *domain.Quote) *EnrollResult {
	return &EnrollResult{
		Outcome:      OutcomePendingReview,
		State:        f.state,
		NextURL:      "/dashboard",
		Quote:        quote,
		ReviewWindow: s.reviewWindow,
	}
}

func courseURL(course *domain.Course) string {
	return "/courses/" + course.ID
}

// firstLessonURL points at the first lesson when one exists, else the course page.
func firstLessonURL(course *domain.Course) string {
	if course.FirstLessonID == "" {
		return courseURL(course)
	}
	return "/courses/" + course.ID + "/lessons/" + course.FirstLessonID
}
