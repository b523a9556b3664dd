package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academy/internal/domain"
	"academy/internal/repository"
)

// CourseHandler handles HTTP requests for the course catalog.
type CourseHandler struct {
	courseRepo repository.CourseRepository
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseRepo repository.CourseRepository) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo}
}

// CourseResponse is the HTTP representation of a course.
type CourseResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Verified      bool    `json:"verified"`
	EnrolledCount int     `json:"enrolled_count"`
}

// GetAll handles GET /v1/courses
func (h *CourseHandler) GetAll(c *gin.Context) {
	courses, err := h.courseRepo.GetAll(c.Request.Context())
	if err != nil {
		RenderError(c, err, "")
		return
	}

	resp := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, toCourseResponse(course))
	}

	respondJSON(c, http.StatusOK, resp)
}

// Get handles GET /v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	courseID := c.Param("id")

	course, err := h.courseRepo.GetByID(c.Request.Context(), courseID)
	if err != nil {
		RenderError(c, err, courseID)
		return
	}

	respondJSON(c, http.StatusOK, toCourseResponse(course))
}

func toCourseResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Price:         course.Price,
		Currency:      "USD",
		Verified:      course.Verified,
		EnrolledCount: course.EnrolledCount,
	}
}
