package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"academy/internal/domain"
	"academy/internal/repository"
)

func newEnrollmentMock(t *testing.T) (*EnrollmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEnrollmentRepository(db), mock
}

func TestEnrollmentCreate_MapsUniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "enrollments_learner_course_key"})

	err := repo.Create(context.Background(), &domain.Enrollment{
		ID:        "enr-1",
		LearnerID: "learner-1",
		CourseID:  "course-1",
		Status:    domain.EnrollmentStatusActive,
		CreatedAt: time.Now(),
	})
	if !errors.Is(err, repository.ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEnrollmentCreate_PassesOtherErrorsThrough(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	dbErr := &pq.Error{Code: "53300", Message: "too many connections"}
	mock.ExpectExec("INSERT INTO enrollments").WillReturnError(dbErr)

	err := repo.Create(context.Background(), &domain.Enrollment{ID: "enr-1", LearnerID: "learner-1", CourseID: "course-1"})
	if errors.Is(err, repository.ErrAlreadyEnrolled) {
		t.Error("non-unique violations must not read as duplicates")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("expected the raw error passed through, got %v", err)
	}
}

func TestEnrollmentCreate_StoresEmptyRefAsNull(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	now := time.Now()
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs("enr-1", "learner-1", "course-1", string(domain.EnrollmentStatusActive), nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Enrollment{
		ID:        "enr-1",
		LearnerID: "learner-1",
		CourseID:  "course-1",
		Status:    domain.EnrollmentStatusActive,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetByLearnerAndCourse_NoRowsIsNilNil(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	mock.ExpectQuery("SELECT (.+) FROM enrollments WHERE learner_id").
		WithArgs("learner-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "learner_id", "course_id", "status", "payment_ref", "created_at"}))

	enrollment, err := repo.GetByLearnerAndCourse(context.Background(), "learner-1", "course-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrollment != nil {
		t.Errorf("expected nil for a missing record, got %+v", enrollment)
	}
}

func TestGetByPaymentRef_ScansRecord(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "learner_id", "course_id", "status", "payment_ref", "created_at"}).
		AddRow("enr-1", "learner-1", "course-1", "PENDING_GATEWAY", "tx-1", now)
	mock.ExpectQuery("SELECT (.+) FROM enrollments WHERE payment_ref").
		WithArgs("tx-1").
		WillReturnRows(rows)

	enrollment, err := repo.GetByPaymentRef(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrollment == nil {
		t.Fatal("expected a record")
	}
	if enrollment.Status != domain.EnrollmentStatusPendingGateway {
		t.Errorf("unexpected status %s", enrollment.Status)
	}
	if enrollment.PaymentRef != "tx-1" {
		t.Errorf("unexpected payment ref %q", enrollment.PaymentRef)
	}
}

func TestUpdateStatus_NoRowsIsNotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs(string(domain.EnrollmentStatusActive), "enr-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "enr-missing", domain.EnrollmentStatusActive)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePaymentRef_UpdatesRow(t *testing.T) {
	t.Parallel()

	repo, mock := newEnrollmentMock(t)
	mock.ExpectExec("UPDATE enrollments SET payment_ref").
		WithArgs("tx-2", "enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePaymentRef(context.Background(), "enr-1", "tx-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
