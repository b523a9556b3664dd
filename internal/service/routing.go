package service

import (
	"context"

	"academy/internal/domain"
	"academy/internal/geo"
)

// Decision is the payment-routing verdict for an enrollment attempt.
type Decision string

const (
	// DecisionAlreadyGranted means access exists; the workflow is a no-op.
	DecisionAlreadyGranted Decision = "ALREADY_GRANTED"

	// DecisionFreeEnroll means the course is free; enroll immediately.
	DecisionFreeEnroll Decision = "FREE_ENROLL"

	// DecisionChoosePayment means the learner must pick a payment channel.
	DecisionChoosePayment Decision = "CHOOSE_PAYMENT"
)

// ChannelOption is one offered payment channel. Both channels are always
// offered; Emphasized only affects presentation.
type ChannelOption struct {
	Channel    domain.PaymentChannel
	Emphasized bool
}

// RoutingService decides which payment path an enrollment attempt takes.
// Location is advisory: it picks the emphasized channel and nothing else, so
// a failed or wrong detection can never block enrollment.
type RoutingService struct {
	locator      geo.Locator
	localCountry string
}

// NewRoutingService creates a new RoutingService.
func NewRoutingService(locator geo.Locator, localCountry string) *RoutingService {
	return &RoutingService{locator: locator, localCountry: localCountry}
}

// Route maps (course, classification) to a decision. For ChoosePayment the
// returned options always contain both channels.
func (s *RoutingService) Route(ctx context.Context, course *domain.Course, classification Classification, learnerID string) (Decision, []ChannelOption) {
	if classification == ClassificationOwner || classification == ClassificationAlreadyEnrolled {
		return DecisionAlreadyGranted, nil
	}

	if course.Free() {
		return DecisionFreeEnroll, nil
	}

	return DecisionChoosePayment, s.channelOptions(ctx, learnerID)
}

func (s *RoutingService) channelOptions(ctx context.Context, learnerID string) []ChannelOption {
	emphasizeManual := false
	if s.locator != nil {
		emphasizeManual = s.locator.Country(ctx, learnerID) == s.localCountry
	}

	return []ChannelOption{
		{Channel: domain.ChannelGateway, Emphasized: !emphasizeManual},
		{Channel: domain.ChannelManual, Emphasized: emphasizeManual},
	}
}
