package errs

import (
	"errors"

	"academy/internal/repository"
)

// Normalize converts any error into an Envelope. It is total: a nil or
// unrecognized error defaults to InternalError, an already-normalized
// envelope passes through unchanged (gaining the course id if it had none),
// and it never fails while classifying a failure.
func Normalize(err error, courseID string) *Envelope {
	if err == nil {
		return fallbackEnvelope(courseID)
	}

	var env *Envelope
	if errors.As(err, &env) {
		if env.CourseID == "" {
			env.CourseID = courseID
		}
		return env
	}

	kind := classify(err)
	return &Envelope{
		Kind:     kind,
		Message:  defaultMessage(kind),
		CourseID: courseID,
	}
}

// classify maps raw collaborator errors to a kind.
func classify(err error) Kind {
	// Errors that declare their own kind (errs.Tag sentinels).
	var cl classifier
	if errors.As(err, &cl) {
		if k := cl.Kind(); known(k) {
			return k
		}
		return KindInternalError
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return KindNotFound

	// A racing duplicate is normally swallowed as success by the workflow;
	// one reaching here is a semantically different conflict.
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return KindResourceConflict

	default:
		return KindInternalError
	}
}

func fallbackEnvelope(courseID string) *Envelope {
	return &Envelope{
		Kind:     KindInternalError,
		Message:  defaultMessage(KindInternalError),
		CourseID: courseID,
	}
}
