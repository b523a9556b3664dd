package domain

import "time"

// Learner represents an authenticated user acting on a course.
type Learner struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
