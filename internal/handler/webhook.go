package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"academy/internal/gateway"
	"academy/internal/service"
)

const webhookSignatureHeader = "X-Gateway-Signature"

// WebhookHandler receives gateway payment confirmations.
type WebhookHandler struct {
	enrollments   *service.EnrollmentService
	gatewaySecret string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(enrollments *service.EnrollmentService, gatewaySecret string) *WebhookHandler {
	return &WebhookHandler{enrollments: enrollments, gatewaySecret: gatewaySecret}
}

type webhookPayload struct {
	Event  string `json:"event"`
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// HandlePaymentConfirmed handles POST /v1/payments/webhook
func (h *WebhookHandler) HandlePaymentConfirmed(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RenderError(c, err, "")
		return
	}

	if err := gateway.VerifyWebhook(h.gatewaySecret, body, c.GetHeader(webhookSignatureHeader)); err != nil {
		RenderError(c, err, "")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		RenderError(c, service.ErrUnknownPayment, "")
		return
	}

	// Only successful charges activate; other events are acknowledged and dropped.
	if payload.Status != "success" {
		respondJSON(c, http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.enrollments.ActivateFromWebhook(c.Request.Context(), payload.TxRef); err != nil {
		RenderError(c, err, "")
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}
