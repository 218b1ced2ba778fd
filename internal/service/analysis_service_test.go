package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinsage/internal/domain"
)

type fakeResolver struct {
	id  string
	err error
}

func (r *fakeResolver) Resolve(ctx context.Context, symbolOrID string) (string, error) {
	return r.id, r.err
}

type fakeMarket struct {
	candles  []domain.Candle
	err      error
	currency string
	days     int
}

func (m *fakeMarket) GetOHLCV(ctx context.Context, coinID, currency string, days int) ([]domain.Candle, error) {
	m.currency = currency
	m.days = days
	return m.candles, m.err
}

type fakeEngine struct {
	report *domain.Report
	err    error
}

func (e *fakeEngine) Analyze(candles []domain.Candle) (*domain.Report, error) {
	return e.report, e.err
}

type fakePrices struct {
	snapshot *domain.PriceSnapshot
	err      error
}

func (p *fakePrices) SimplePrice(ctx context.Context, coinID, currency string) (*domain.PriceSnapshot, error) {
	return p.snapshot, p.err
}

func TestAnalyzeFillsReportIdentity(t *testing.T) {
	market := &fakeMarket{candles: testCandles(time.Now())}
	svc := NewAnalysisService(
		testTracer(),
		&fakeResolver{id: "bitcoin"},
		market,
		&fakeEngine{report: &domain.Report{Price: 100}},
		&fakePrices{},
	)

	report, err := svc.Analyze(context.Background(), "BTC", " USD ", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CoinID != "bitcoin" || report.Currency != "usd" || report.Days != 7 {
		t.Fatalf("report identity not filled: %+v", report)
	}
	if report.Interval != domain.Interval7Day {
		t.Fatalf("expected 7d interval, got %d", report.Interval)
	}
	if market.currency != "usd" {
		t.Fatalf("currency must be normalized before the fetch, got %q", market.currency)
	}
}

func TestAnalyzeDefaultsCurrencyAndDays(t *testing.T) {
	market := &fakeMarket{candles: testCandles(time.Now())}
	svc := NewAnalysisService(
		testTracer(),
		&fakeResolver{id: "bitcoin"},
		market,
		&fakeEngine{report: &domain.Report{}},
		&fakePrices{},
	)

	report, err := svc.Analyze(context.Background(), "btc", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Currency != "usd" || report.Days != 30 {
		t.Fatalf("expected usd/30 defaults, got %s/%d", report.Currency, report.Days)
	}
	if market.days != 30 {
		t.Fatalf("defaulted days must reach the fetch, got %d", market.days)
	}
}

func TestAnalyzeStageErrors(t *testing.T) {
	cases := []struct {
		name     string
		resolver *fakeResolver
		market   *fakeMarket
		engine   *fakeEngine
		stage    string
		sentinel error
	}{
		{
			name:     "resolve",
			resolver: &fakeResolver{err: domain.ErrUnresolvedSymbol},
			market:   &fakeMarket{},
			engine:   &fakeEngine{},
			stage:    "resolve",
			sentinel: domain.ErrUnresolvedSymbol,
		},
		{
			name:     "fetch",
			resolver: &fakeResolver{id: "bitcoin"},
			market:   &fakeMarket{err: domain.ErrProviderUnavailable},
			engine:   &fakeEngine{},
			stage:    "fetch",
			sentinel: domain.ErrProviderUnavailable,
		},
		{
			name:     "analyze",
			resolver: &fakeResolver{id: "bitcoin"},
			market:   &fakeMarket{},
			engine:   &fakeEngine{err: domain.ErrInsufficientHistory},
			stage:    "analyze",
			sentinel: domain.ErrInsufficientHistory,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAnalysisService(testTracer(), tc.resolver, tc.market, tc.engine, &fakePrices{})
			_, err := svc.Analyze(context.Background(), "btc", "usd", 7)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			var ae *domain.AnalysisError
			if !errors.As(err, &ae) {
				t.Fatalf("expected AnalysisError, got %T", err)
			}
			if ae.Stage != tc.stage {
				t.Fatalf("expected stage %s, got %s", tc.stage, ae.Stage)
			}
		})
	}
}

func TestGetCurrentPrice(t *testing.T) {
	svc := NewAnalysisService(
		testTracer(),
		&fakeResolver{id: "bitcoin"},
		&fakeMarket{},
		&fakeEngine{},
		&fakePrices{snapshot: &domain.PriceSnapshot{CoinID: "bitcoin", Currency: "usd", Price: 42000}},
	)

	snap, err := svc.GetCurrentPrice(context.Background(), "btc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Price != 42000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetCurrentPriceStageErrors(t *testing.T) {
	svc := NewAnalysisService(
		testTracer(),
		&fakeResolver{id: "bitcoin"},
		&fakeMarket{},
		&fakeEngine{},
		&fakePrices{err: domain.ErrProviderUnavailable},
	)

	_, err := svc.GetCurrentPrice(context.Background(), "btc", "usd")
	var ae *domain.AnalysisError
	if !errors.As(err, &ae) || ae.Stage != "price" {
		t.Fatalf("expected price-stage AnalysisError, got %v", err)
	}
}
