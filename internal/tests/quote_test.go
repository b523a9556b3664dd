package tests

import (
	"context"
	"errors"
	"testing"

	"academy/internal/service"
)

// ──────────────────────────────────────────────
// CURRENCY QUOTES
// ──────────────────────────────────────────────

func TestQuote_RoundingLaw(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		price float64
		rate  float64
		want  int64
	}{
		{name: "fallback rate", price: 25, rate: 136.61, want: 3415},    // 3415.25 rounds down
		{name: "rounds up", price: 25, rate: 136.62, want: 3416},        // 3415.50 rounds half up
		{name: "small price", price: 0.5, rate: 136.61, want: 68},       // 68.305
		{name: "integer product", price: 10, rate: 100, want: 1000},
		{name: "zero price", price: 0, rate: 136.61, want: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quotes := service.NewQuoteService(&MockRateSource{Rate: tc.rate}, 136.61, "USD", "ETB")
			quote := quotes.Quote(context.Background(), tc.price)

			if quote.Unavailable {
				t.Fatal("quote should be available")
			}
			if quote.LocalAmount != tc.want {
				t.Errorf("expected %d, got %d", tc.want, quote.LocalAmount)
			}
			if quote.LocalAmount < 0 {
				t.Error("local amount must never be negative")
			}
		})
	}
}

func TestQuote_LiveRateUsedWhenHealthy(t *testing.T) {
	t.Parallel()

	quotes := service.NewQuoteService(&MockRateSource{Rate: 140.0}, 136.61, "USD", "ETB")
	quote := quotes.Quote(context.Background(), 25)

	if quote.IsFallback {
		t.Error("healthy source must not fall back")
	}
	if quote.Rate != 140.0 {
		t.Errorf("expected live rate 140.0, got %v", quote.Rate)
	}
	if quote.LocalAmount != 3500 {
		t.Errorf("expected 3500, got %d", quote.LocalAmount)
	}
}

func TestQuote_FallbackNeverBlocks(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source *MockRateSource
	}{
		{name: "source unreachable", source: &MockRateSource{Err: errors.New("connection refused")}},
		{name: "source returns zero rate", source: &MockRateSource{Rate: 0}},
		{name: "source returns negative rate", source: &MockRateSource{Rate: -1}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quotes := service.NewQuoteService(tc.source, 136.61, "USD", "ETB")
			quote := quotes.Quote(context.Background(), 25)

			if !quote.IsFallback {
				t.Error("expected fallback rate")
			}
			if quote.Unavailable {
				t.Error("fallback quote must still be usable")
			}
			if quote.LocalAmount != 3415 {
				t.Errorf("expected 3415 from fallback 136.61, got %d", quote.LocalAmount)
			}
		})
	}
}

// Even a broken fallback leaves the flow alive: the quote is marked
// unavailable and payment proceeds in the base currency.
func TestQuote_UnavailableWhenFallbackBrokenToo(t *testing.T) {
	t.Parallel()

	quotes := service.NewQuoteService(&MockRateSource{Err: errors.New("down")}, 0, "USD", "ETB")
	quote := quotes.Quote(context.Background(), 25)

	if !quote.Unavailable {
		t.Error("expected unavailable quote")
	}
	if quote.LocalAmount != 0 {
		t.Errorf("unavailable quote carries no local amount, got %d", quote.LocalAmount)
	}
}

func TestQuote_FetchedFreshEachCall(t *testing.T) {
	t.Parallel()

	source := &MockRateSource{Rate: 136.61}
	quotes := service.NewQuoteService(source, 136.61, "USD", "ETB")

	quotes.Quote(context.Background(), 25)
	quotes.Quote(context.Background(), 25)
	quotes.Quote(context.Background(), 25)

	if source.SpotCallCount != 3 {
		t.Errorf("expected 3 live lookups (no caching), got %d", source.SpotCallCount)
	}
}
