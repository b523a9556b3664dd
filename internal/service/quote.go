package service

import (
	"context"
	"math"
	"time"

	"academy/internal/domain"
)

// RateSource fetches a live spot rate. Any failure is reported as an error;
// QuoteService decides what to do about it.
type RateSource interface {
	Spot(ctx context.Context, base, target string) (float64, error)
}

// QuoteService converts a base-currency price into a local amount for the
// manual channel. It never fails: a broken rate source degrades to the
// fallback constant, and a broken fallback degrades to an unavailable quote
// that still lets payment proceed in the base currency.
type QuoteService struct {
	source       RateSource
	fallbackRate float64
	base         string
	target       string
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(source RateSource, fallbackRate float64, base, target string) *QuoteService {
	return &QuoteService{
		source:       source,
		fallbackRate: fallbackRate,
		base:         base,
		target:       target,
	}
}

// Quote computes the local amount for a price. Always round-to-nearest on
// whole local units, never floor or ceil. Fetched fresh on every call; rates
// are never cached or checked for staleness.
func (s *QuoteService) Quote(ctx context.Context, price float64) domain.Quote {
	quote := domain.Quote{
		Base:      s.base,
		Target:    s.target,
		FetchedAt: time.Now(),
	}

	rate := 0.0
	if s.source != nil {
		if live, err := s.source.Spot(ctx, s.base, s.target); err == nil {
			rate = live
		}
	}
	if rate <= 0 {
		rate = s.fallbackRate
		quote.IsFallback = true
	}
	if rate <= 0 {
		quote.Unavailable = true
		return quote
	}

	quote.Rate = rate
	quote.LocalAmount = int64(math.Round(price * rate))
	return quote
}
