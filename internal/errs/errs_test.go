package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"academy/internal/repository"
)

// Normalize is total: whatever goes in, exactly one of the nine kinds comes
// out, with a non-empty message.
func TestNormalize_ClosedTaxonomy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil error", err: nil, want: KindInternalError},
		{name: "plain error", err: errors.New("dial tcp: connection refused"), want: KindInternalError},
		{name: "wrapped plain error", err: fmt.Errorf("query: %w", errors.New("broken pipe")), want: KindInternalError},
		{name: "repository not found", err: repository.ErrNotFound, want: KindNotFound},
		{name: "wrapped not found", err: fmt.Errorf("course: %w", repository.ErrNotFound), want: KindNotFound},
		{name: "repository duplicate", err: repository.ErrAlreadyEnrolled, want: KindResourceConflict},
		{name: "tagged sentinel", err: Tag(KindValidationError, "bad input"), want: KindValidationError},
		{name: "wrapped tagged sentinel", err: fmt.Errorf("enroll: %w", Tag(KindPaymentError, "declined")), want: KindPaymentError},
		{name: "tagged with unknown kind", err: Tag(Kind("EXPLODED"), "what"), want: KindInternalError},
		{name: "envelope passthrough", err: New(KindForbidden, "nope"), want: KindForbidden},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := Normalize(tc.err, "course-1")
			if env == nil {
				t.Fatal("Normalize must never return nil")
			}
			if env.Kind != tc.want {
				t.Errorf("expected kind %s, got %s", tc.want, env.Kind)
			}
			if !known(env.Kind) {
				t.Errorf("kind %s is outside the taxonomy", env.Kind)
			}
			if env.Message == "" {
				t.Error("expected a non-empty message")
			}
		})
	}
}

func TestNormalize_EnvelopeKeepsMessageAndGainsCourse(t *testing.T) {
	t.Parallel()

	env := Normalize(New(KindValidationError, "reference is required"), "course-9")
	if env.Message != "reference is required" {
		t.Errorf("envelope message replaced, got %q", env.Message)
	}
	if env.CourseID != "course-9" {
		t.Errorf("expected course id attached, got %q", env.CourseID)
	}

	// An envelope that already carries a course id keeps it.
	env = Normalize(New(KindNotFound, "gone").WithCourse("course-1"), "course-2")
	if env.CourseID != "course-1" {
		t.Errorf("existing course id overwritten, got %q", env.CourseID)
	}
}

func TestNormalize_RawTextNeverLeaks(t *testing.T) {
	t.Parallel()

	raw := `pq: duplicate key value violates unique constraint "enrollments_learner_course_key"`
	env := Normalize(errors.New(raw), "")
	if env.Message == raw {
		t.Error("raw collaborator error text must not reach the caller")
	}
}

func TestKind_ActionsCoverEveryKind(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds {
		if len(kind.Actions()) == 0 {
			t.Errorf("kind %s has no recovery actions", kind)
		}
		if kind.Title() == "" {
			t.Errorf("kind %s has no title", kind)
		}
		if defaultMessage(kind) == "" {
			t.Errorf("kind %s has no default message", kind)
		}
	}
}

func TestKind_Actions(t *testing.T) {
	t.Parallel()

	if actions := KindAuthRequired.Actions(); actions[0] != ActionLogin {
		t.Errorf("auth failures lead with LOGIN, got %v", actions)
	}
	if actions := KindEnrollmentRequired.Actions(); len(actions) != 1 || actions[0] != ActionViewCourse {
		t.Errorf("enrollment-required offers VIEW_COURSE only, got %v", actions)
	}
	if actions := KindRateLimitExceeded.Actions(); len(actions) != 1 || actions[0] != ActionRetryLater {
		t.Errorf("rate limiting offers RETRY_LATER only, got %v", actions)
	}
}

func TestKind_HTTPStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind Kind
		want int
	}{
		{KindAuthRequired, http.StatusUnauthorized},
		{KindEnrollmentRequired, http.StatusPaymentRequired},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindValidationError, http.StatusBadRequest},
		{KindResourceConflict, http.StatusConflict},
		{KindRateLimitExceeded, http.StatusTooManyRequests},
		{KindPaymentError, http.StatusBadGateway},
		{KindInternalError, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		if got := tc.kind.HTTPStatus(); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestTag_BehavesAsSentinel(t *testing.T) {
	t.Parallel()

	sentinel := Tag(KindValidationError, "course id is required")
	wrapped := fmt.Errorf("enroll: %w", sentinel)

	if !errors.Is(wrapped, sentinel) {
		t.Error("tagged sentinels must survive wrapping")
	}
	if sentinel.Error() != "course id is required" {
		t.Errorf("unexpected text: %q", sentinel.Error())
	}
}
