package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"academy/internal/auth"
	"academy/internal/domain"
	"academy/internal/errs"
	"academy/internal/service"
)

// EnrollmentHandler handles HTTP requests for the enrollment workflow.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// ChannelResponse is one offered payment channel.
type ChannelResponse struct {
	Channel    string `json:"channel"`
	Emphasized bool   `json:"emphasized"`
}

// QuoteResponse is the HTTP representation of a manual-channel quote.
type QuoteResponse struct {
	Base        string  `json:"base"`
	Target      string  `json:"target"`
	Rate        float64 `json:"rate,omitempty"`
	LocalAmount int64   `json:"local_amount,omitempty"`
	IsFallback  bool    `json:"is_fallback"`
	Unavailable bool    `json:"unavailable"`
}

// EnrollResponse is the discriminated result returned by the workflow
// endpoints. Outcome selects which optional fields are present.
type EnrollResponse struct {
	Outcome         string            `json:"outcome"`
	NewlyEnrolled   bool              `json:"newly_enrolled,omitempty"`
	NextURL         string            `json:"next_url,omitempty"`
	RedirectAfterMS int64             `json:"redirect_after_ms,omitempty"`
	RedirectURL     string            `json:"redirect_url,omitempty"`
	Channels        []ChannelResponse `json:"channels,omitempty"`
	Quote           *QuoteResponse    `json:"quote,omitempty"`
	ReviewWindow    string            `json:"review_window,omitempty"`
}

// Enroll handles POST /v1/courses/:id/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID := c.Param("id")

	learnerID, ok := auth.LearnerFrom(c)
	if !ok {
		RenderError(c, auth.ErrUnauthenticated, courseID)
		return
	}

	result, err := h.enrollments.Enroll(c.Request.Context(), learnerID, courseID)
	if err != nil {
		RenderError(c, err, courseID)
		return
	}

	respondJSON(c, http.StatusOK, toEnrollResponse(result))
}

// CheckoutRequest is the HTTP request body for starting a gateway checkout.
type CheckoutRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Checkout handles POST /v1/courses/:id/checkout
func (h *EnrollmentHandler) Checkout(c *gin.Context) {
	courseID := c.Param("id")

	learner, ok := auth.ProfileFrom(c)
	if !ok {
		RenderError(c, auth.ErrUnauthenticated, courseID)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, errs.New(errs.KindValidationError, "invalid request body").
			WithDetails(gin.H{"reason": err.Error()}), courseID)
		return
	}

	// The gateway wants a billing contact; fall back to the token profile
	// when the form left it blank.
	if req.Email == "" {
		req.Email = learner.Email
	}
	if req.Name == "" {
		req.Name = learner.Name
	}

	result, err := h.enrollments.StartGatewayCheckout(c.Request.Context(), learner.ID, courseID, req.Email, req.Name)
	if err != nil {
		RenderError(c, err, courseID)
		return
	}

	respondJSON(c, http.StatusOK, toEnrollResponse(result))
}

// Quote handles GET /v1/courses/:id/quote
func (h *EnrollmentHandler) Quote(c *gin.Context) {
	courseID := c.Param("id")

	if _, ok := auth.LearnerFrom(c); !ok {
		RenderError(c, auth.ErrUnauthenticated, courseID)
		return
	}

	quote, err := h.enrollments.QuoteForCourse(c.Request.Context(), courseID)
	if err != nil {
		RenderError(c, err, courseID)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

// ManualPaymentRequest is the HTTP request body for a manual-payment submission.
type ManualPaymentRequest struct {
	PayerName  string `json:"payer_name"`
	PayerPhone string `json:"payer_phone"`
	Reference  string `json:"reference"`
	ReceiptURL string `json:"receipt_url"`
}

// SubmitManualPayment handles POST /v1/courses/:id/manual-payment
func (h *EnrollmentHandler) SubmitManualPayment(c *gin.Context) {
	courseID := c.Param("id")

	learnerID, ok := auth.LearnerFrom(c)
	if !ok {
		RenderError(c, auth.ErrUnauthenticated, courseID)
		return
	}

	var req ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, errs.New(errs.KindValidationError, "invalid request body").
			WithDetails(gin.H{"reason": err.Error()}), courseID)
		return
	}

	result, err := h.enrollments.SubmitManualPayment(c.Request.Context(), learnerID, courseID, domain.ManualProof{
		PayerName:   req.PayerName,
		PayerPhone:  req.PayerPhone,
		Reference:   req.Reference,
		ReceiptURL:  req.ReceiptURL,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		RenderError(c, err, courseID)
		return
	}

	respondJSON(c, http.StatusOK, toEnrollResponse(result))
}

// EnrollmentResponse is the HTTP representation of an enrollment record.
type EnrollmentResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// List handles GET /v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	learnerID, ok := auth.LearnerFrom(c)
	if !ok {
		RenderError(c, auth.ErrUnauthenticated, "")
		return
	}

	enrollments, err := h.enrollments.ListForLearner(c.Request.Context(), learnerID)
	if err != nil {
		RenderError(c, err, "")
		return
	}

	resp := make([]EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		resp = append(resp, EnrollmentResponse{
			ID:        e.ID,
			CourseID:  e.CourseID,
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt,
		})
	}

	respondJSON(c, http.StatusOK, resp)
}

func toEnrollResponse(result *service.EnrollResult) EnrollResponse {
	resp := EnrollResponse{
		Outcome:       string(result.Outcome),
		NewlyEnrolled: result.NewlyEnrolled,
		NextURL:       result.NextURL,
		RedirectURL:   result.RedirectURL,
	}
	if result.RedirectAfter > 0 {
		resp.RedirectAfterMS = result.RedirectAfter.Milliseconds()
	}
	if result.ReviewWindow > 0 {
		resp.ReviewWindow = result.ReviewWindow.String()
	}
	for _, ch := range result.Channels {
		resp.Channels = append(resp.Channels, ChannelResponse{
			Channel:    string(ch.Channel),
			Emphasized: ch.Emphasized,
		})
	}
	if result.Quote != nil {
		q := toQuoteResponse(result.Quote)
		resp.Quote = &q
	}
	return resp
}

func toQuoteResponse(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		Base:        quote.Base,
		Target:      quote.Target,
		Rate:        quote.Rate,
		LocalAmount: quote.LocalAmount,
		IsFallback:  quote.IsFallback,
		Unavailable: quote.Unavailable,
	}
}
