// Package errs defines the closed error taxonomy every failure is normalized
// into before it reaches the presentation layer. Raw collaborator errors must
// never cross the handler boundary.
package errs

import "net/http"

// Kind classifies a failure. The set is closed: Normalize always returns one
// of these nine values.
type Kind string

const (
	KindAuthRequired       Kind = "AUTH_REQUIRED"
	KindEnrollmentRequired Kind = "ENROLLMENT_REQUIRED"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindValidationError    Kind = "VALIDATION_ERROR"
	KindResourceConflict   Kind = "RESOURCE_CONFLICT"
	KindRateLimitExceeded  Kind = "RATE_LIMIT_EXCEEDED"
	KindPaymentError       Kind = "PAYMENT_ERROR"
	KindInternalError      Kind = "INTERNAL_ERROR"
)

// Kinds lists every defined kind.
var Kinds = []Kind{
	KindAuthRequired,
	KindEnrollmentRequired,
	KindForbidden,
	KindNotFound,
	KindValidationError,
	KindResourceConflict,
	KindRateLimitExceeded,
	KindPaymentError,
	KindInternalError,
}

// Action is a recovery affordance the presentation layer must offer.
type Action string

const (
	ActionLogin          Action = "LOGIN"
	ActionRetry          Action = "RETRY"
	ActionRetryLater     Action = "RETRY_LATER"
	ActionGoBack         Action = "GO_BACK"
	ActionViewCourse     Action = "VIEW_COURSE"
	ActionCorrectInput   Action = "CORRECT_INPUT"
	ActionContactSupport Action = "CONTACT_SUPPORT"
	ActionReport         Action = "REPORT"
)

// Actions returns the recovery affordances mandated for the kind.
func (k Kind) Actions() []Action {
	switch k {
	case KindAuthRequired:
		return []Action{ActionLogin, ActionRetry}
	case KindEnrollmentRequired:
		return []Action{ActionViewCourse}
	case KindForbidden:
		return []Action{ActionGoBack}
	case KindNotFound:
		return []Action{ActionGoBack}
	case KindValidationError:
		return []Action{ActionCorrectInput}
	case KindResourceConflict:
		return []Action{ActionViewCourse, ActionContactSupport}
	case KindRateLimitExceeded:
		return []Action{ActionRetryLater}
	case KindPaymentError:
		return []Action{ActionRetry, ActionContactSupport}
	case KindInternalError:
		return []Action{ActionRetry, ActionContactSupport, ActionReport}
	default:
		return []Action{ActionRetry, ActionContactSupport, ActionReport}
	}
}

// HTTPStatus maps the kind to an HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindEnrollmentRequired:
		return http.StatusPaymentRequired
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationError:
		return http.StatusBadRequest
	case KindResourceConflict:
		return http.StatusConflict
	case KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case KindPaymentError:
		return http.StatusBadGateway
	case KindInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the short heading shown above the message.
func (k Kind) Title() string {
	switch k {
	case KindAuthRequired:
		return "Sign in required"
	case KindEnrollmentRequired:
		return "Enrollment required"
	case KindForbidden:
		return "Not allowed"
	case KindNotFound:
		return "Not found"
	case KindValidationError:
		return "Check your input"
	case KindResourceConflict:
		return "Already in progress"
	case KindRateLimitExceeded:
		return "Too many attempts"
	case KindPaymentError:
		return "Payment problem"
	default:
		return "Something went wrong"
	}
}

// Envelope is the normalized shape of every failure surfaced to callers.
type Envelope struct {
	Kind     Kind
	Message  string
	Details  map[string]any // hidden behind a disclosure control, never shown by default
	CourseID string         // for contextual recovery actions, optional
}

// Error implements the error interface so envelopes travel as ordinary errors.
func (e *Envelope) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// New builds an envelope for the given kind with a caller-provided message.
func New(kind Kind, message string) *Envelope {
	return &Envelope{Kind: kind, Message: message}
}

// WithCourse attaches a course id for contextual recovery actions.
func (e *Envelope) WithCourse(courseID string) *Envelope {
	e.CourseID = courseID
	return e
}

// WithDetails attaches structured details.
func (e *Envelope) WithDetails(details map[string]any) *Envelope {
	e.Details = details
	return e
}

// classifier is satisfied by errors that know their own kind, so packages can
// declare taxonomy membership without a mapping entry here.
type classifier interface {
	Kind() Kind
}

// tagged is a sentinel error carrying its taxonomy kind. Created with Tag and
// compared with errors.Is, like any other sentinel.
type tagged struct {
	kind Kind
	text string
}

func (t *tagged) Error() string { return t.text }
func (t *tagged) Kind() Kind    { return t.kind }

// Tag creates a sentinel error that classifies itself into the given kind.
func Tag(kind Kind, text string) error {
	return &tagged{kind: kind, text: text}
}

// messages per kind when the underlying error text is not fit to show.
func defaultMessage(kind Kind) string {
	switch kind {
	case KindAuthRequired:
		return "You need to sign in to continue."
	case KindEnrollmentRequired:
		return "You need to enroll in this course first."
	case KindForbidden:
		return "You don't have permission to do that."
	case KindNotFound:
		return "We couldn't find what you were looking for."
	case KindValidationError:
		return "Some of the submitted information is invalid."
	case KindResourceConflict:
		return "This action was already completed."
	case KindRateLimitExceeded:
		return "Too many attempts. Please wait a moment and try again."
	case KindPaymentError:
		return "The payment could not be completed. You have not been charged."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func known(kind Kind) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
