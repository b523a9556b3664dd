package postgres

import (
	"context"
	"database/sql"
	"errors"

	"academy/internal/domain"
	"academy/internal/repository"
)

// CourseRepository is a PostgreSQL implementation of repository.CourseRepository.
type CourseRepository struct {
	q Querier
}

// NewCourseRepository creates a new PostgreSQL course repository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{q: db}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, creator_id, title, price, verified, first_lesson_id, enrolled_count, created_at
		FROM courses WHERE id = $1
	`

	var course domain.Course
	var firstLesson sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.CreatorID,
		&course.Title,
		&course.Price,
		&course.Verified,
		&firstLesson,
		&course.EnrolledCount,
		&course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	course.FirstLessonID = firstLesson.String
	return &course, nil
}

// GetAll retrieves the published catalog.
func (r *CourseRepository) GetAll(ctx context.Context) ([]*domain.Course, error) {
	query := `
		SELECT id, creator_id, title, price, verified, first_lesson_id, enrolled_count, created_at
		FROM courses ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		var course domain.Course
		var firstLesson sql.NullString
		if err := rows.Scan(
			&course.ID,
			&course.CreatorID,
			&course.Title,
			&course.Price,
			&course.Verified,
			&firstLesson,
			&course.EnrolledCount,
			&course.CreatedAt,
		); err != nil {
			return nil, err
		}
		course.FirstLessonID = firstLesson.String
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}
