package domain

import "time"

// PaymentChannel identifies one of the two available payment paths.
type PaymentChannel string

const (
	// ChannelGateway is the instant, redirect-based card checkout confirmed
	// asynchronously via webhook.
	ChannelGateway PaymentChannel = "card-gateway"

	// ChannelManual is the human-reviewed local payment path.
	ChannelManual PaymentChannel = "manual-local"
)

// PaymentOutcome represents what happened to a payment attempt.
type PaymentOutcome string

const (
	PaymentOutcomeRedirected PaymentOutcome = "REDIRECTED"
	PaymentOutcomeSubmitted  PaymentOutcome = "SUBMITTED"
	PaymentOutcomeFailed     PaymentOutcome = "FAILED"
)

// PaymentAttempt records a single attempt to pay for a course. Ephemeral:
// nothing beyond what the gateway or the manual form captures is persisted.
type PaymentAttempt struct {
	CourseID  string
	LearnerID string
	Amount    float64
	Currency  string
	Channel   PaymentChannel
	Outcome   PaymentOutcome
}

// ManualProof carries the evidence a learner submits on the manual channel.
type ManualProof struct {
	PayerName   string
	PayerPhone  string
	Reference   string // bank/telecom transaction reference
	ReceiptURL  string // uploaded receipt image, optional
	SubmittedAt time.Time
}

// Quote is a computed local-currency amount for the manual channel. Never
// persisted and never cached across requests.
type Quote struct {
	Base        string
	Target      string
	Rate        float64
	LocalAmount int64 // whole local units, round(price * rate)
	FetchedAt   time.Time
	IsFallback  bool
	Unavailable bool // even the fallback could not be applied; charge in Base
}
