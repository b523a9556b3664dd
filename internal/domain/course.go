package domain

import "time"

// Course represents a purchasable course in the catalog.
type Course struct {
	ID            string
	CreatorID     string
	Title         string
	Price         float64 // base price in the reference currency (USD)
	Verified      bool    // platform-verified content
	FirstLessonID string  // empty when the course has no published lesson yet
	EnrolledCount int     // display-only, not authoritative for gating
	CreatedAt     time.Time
}

// Free reports whether the course requires no payment.
func (c *Course) Free() bool {
	return c.Price == 0
}
