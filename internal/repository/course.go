package repository

import (
	"context"

	"academy/internal/domain"
)

// CourseRepository defines the read operations the orchestration core needs
// over the course catalog. The catalog itself is owned elsewhere.
type CourseRepository interface {
	// GetByID retrieves a course by ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id string) (*domain.Course, error)

	// GetAll retrieves the published catalog.
	GetAll(ctx context.Context) ([]*domain.Course, error)
}
