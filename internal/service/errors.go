package service

import "academy/internal/errs"

var (
	// ErrInvalidLearnerID is returned when the learner id is empty.
	ErrInvalidLearnerID = errs.Tag(errs.KindValidationError, "invalid learner id")

	// ErrInvalidCourseID is returned when the course id is empty.
	ErrInvalidCourseID = errs.Tag(errs.KindValidationError, "invalid course id")

	// ErrCourseNotPayable is returned when a paid-channel call targets a free course.
	ErrCourseNotPayable = errs.Tag(errs.KindValidationError, "course does not require payment")

	// ErrIncompleteProof is returned when a manual-payment proof is missing
	// required fields.
	ErrIncompleteProof = errs.Tag(errs.KindValidationError, "payment proof is incomplete")

	// ErrReviewPending is returned when a manual payment for the pair is
	// already under review and the new action conflicts with it.
	ErrReviewPending = errs.Tag(errs.KindResourceConflict, "a manual payment is already under review")

	// ErrUnknownPayment is returned when a webhook references no known checkout.
	ErrUnknownPayment = errs.Tag(errs.KindNotFound, "payment reference not recognized")

	// ErrIllegalTransition means an enrollment flow step was driven out of
	// order. Callers never see it directly; it normalizes to InternalError.
	ErrIllegalTransition = errs.Tag(errs.KindInternalError, "illegal enrollment flow transition")
)
