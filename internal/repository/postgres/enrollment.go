package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"academy/internal/domain"
	"academy/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// EnrollmentRepository is a PostgreSQL implementation of repository.EnrollmentRepository.
type EnrollmentRepository struct {
	q Querier
}

// NewEnrollmentRepository creates a new PostgreSQL enrollment repository.
func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{q: db}
}

// NewEnrollmentRepositoryWithTx creates an enrollment repository using a transaction.
func NewEnrollmentRepositoryWithTx(tx *sql.Tx) *EnrollmentRepository {
	return &EnrollmentRepository{q: tx}
}

// Create persists a new enrollment. The unique index on
// (learner_id, course_id) makes racing duplicates surface as
// repository.ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, learner_id, course_id, status, payment_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.LearnerID,
		enrollment.CourseID,
		enrollment.Status,
		nullString(enrollment.PaymentRef),
		enrollment.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repository.ErrAlreadyEnrolled
		}
		return err
	}

	return nil
}

// GetByLearnerAndCourse retrieves the enrollment for a (learner, course) pair.
// Returns nil, nil if none exists.
func (r *EnrollmentRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*domain.Enrollment, error) {
	query := `
		SELECT id, learner_id, course_id, status, payment_ref, created_at
		FROM enrollments WHERE learner_id = $1 AND course_id = $2
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, learnerID, courseID))
}

// GetByPaymentRef retrieves the enrollment carrying the given payment
// reference. Returns nil, nil if none exists.
func (r *EnrollmentRepository) GetByPaymentRef(ctx context.Context, ref string) (*domain.Enrollment, error) {
	query := `
		SELECT id, learner_id, course_id, status, payment_ref, created_at
		FROM enrollments WHERE payment_ref = $1
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, ref))
}

// GetByLearner lists all enrollments for a learner.
func (r *EnrollmentRepository) GetByLearner(ctx context.Context, learnerID string) ([]*domain.Enrollment, error) {
	query := `
		SELECT id, learner_id, course_id, status, payment_ref, created_at
		FROM enrollments WHERE learner_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		var ref sql.NullString
		if err := rows.Scan(&e.ID, &e.LearnerID, &e.CourseID, &e.Status, &ref, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.PaymentRef = ref.String
		enrollments = append(enrollments, &e)
	}

	return enrollments, rows.Err()
}

// UpdateStatus updates the status of an enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error {
	query := `UPDATE enrollments SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePaymentRef replaces the payment reference on an enrollment.
func (r *EnrollmentRepository) UpdatePaymentRef(ctx context.Context, id string, ref string) error {
	query := `UPDATE enrollments SET payment_ref = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, nullString(ref), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *EnrollmentRepository) scanOne(row *sql.Row) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var ref sql.NullString
	err := row.Scan(&e.ID, &e.LearnerID, &e.CourseID, &e.Status, &ref, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	e.PaymentRef = ref.String
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
