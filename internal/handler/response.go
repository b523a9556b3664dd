package handler

import (
	"github.com/gin-gonic/gin"

	"academy/internal/errs"
)

// ErrorBody is the wire shape of a normalized failure. Details are optional
// and meant for a disclosure control, never shown by default.
type ErrorBody struct {
	Kind     errs.Kind      `json:"kind"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Actions  []errs.Action  `json:"actions"`
	CourseID string         `json:"course_id,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RenderError normalizes any failure into the taxonomy and writes it with the
// matching status code and recovery actions. Raw collaborator errors never
// reach the wire.
func RenderError(c *gin.Context, err error, courseID string) {
	env := errs.Normalize(err, courseID)
	c.JSON(env.Kind.HTTPStatus(), ErrorResponse{Error: ErrorBody{
		Kind:     env.Kind,
		Title:    env.Kind.Title(),
		Message:  env.Message,
		Actions:  env.Kind.Actions(),
		CourseID: env.CourseID,
		Details:  env.Details,
	}})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}
