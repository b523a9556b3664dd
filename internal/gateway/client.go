// Package gateway is the boundary to the external card-payment provider.
// Checkout is redirect-based: the core initiates a session and hands the
// browser off; confirmation arrives later on the webhook.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"academy/internal/errs"
)

var (
	// ErrDeclined is returned when the gateway rejects the checkout request.
	ErrDeclined = errs.Tag(errs.KindPaymentError, "gateway declined the payment")

	// ErrUnavailable is returned when the gateway cannot be reached.
	ErrUnavailable = errs.Tag(errs.KindPaymentError, "gateway unreachable")

	// ErrBadSignature is returned when a webhook payload fails verification.
	ErrBadSignature = errs.Tag(errs.KindForbidden, "webhook signature mismatch")
)

// Checkout is the interface the workflow uses to start a card payment.
type Checkout interface {
	// Initialize creates a checkout session and returns the URL the browser
	// must be redirected to.
	Initialize(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CheckoutRequest contains the parameters for initiating a checkout.
type CheckoutRequest struct {
	TxRef    string
	Amount   float64
	Currency string
	Email    string
	Name     string
}

// CheckoutSession is the gateway's answer to a successful initiation.
type CheckoutSession struct {
	TxRef       string
	RedirectURL string
}

// Client is the HTTP implementation of Checkout.
type Client struct {
	baseURL     string
	secret      string
	callbackURL string
	returnURL   string
	http        *http.Client
}

// NewClient creates a new gateway client.
func NewClient(baseURL, secret, callbackURL, returnURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		secret:      secret,
		callbackURL: callbackURL,
		returnURL:   returnURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type initializeBody struct {
	TxRef       string `json:"tx_ref"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type initializeResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// Initialize creates a checkout session.
func (c *Client) Initialize(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body, err := json.Marshal(initializeBody{
		TxRef:       req.TxRef,
		Amount:      fmt.Sprintf("%.2f", req.Amount),
		Currency:    req.Currency,
		Email:       req.Email,
		Name:        req.Name,
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrDeclined
	}

	var parsed initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ErrDeclined
	}
	if parsed.Status != "success" || parsed.Data.CheckoutURL == "" {
		return nil, ErrDeclined
	}

	return &CheckoutSession{TxRef: req.TxRef, RedirectURL: parsed.Data.CheckoutURL}, nil
}

// VerifyWebhook checks the HMAC-SHA256 signature the gateway attaches to
// webhook deliveries. Returns ErrBadSignature on mismatch.
func VerifyWebhook(secret string, payload []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
