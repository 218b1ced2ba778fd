package service

import (
	"context"
	"strings"

	"coinsage/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SymbolResolver interface {
	Resolve(ctx context.Context, symbolOrID string) (string, error)
}

type OHLCVSource interface {
	GetOHLCV(ctx context.Context, coinID, currency string, days int) ([]domain.Candle, error)
}

type ReportEngine interface {
	Analyze(candles []domain.Candle) (*domain.Report, error)
}

type PriceProvider interface {
	SimplePrice(ctx context.Context, coinID, currency string) (*domain.PriceSnapshot, error)
}

// AnalysisService is the outbound interface to the presentation layer:
// analyze(coinIdOrSymbol, currency, days) -> Report or a typed error
// saying which stage failed for which coin.
type AnalysisService struct {
	tracer   trace.Tracer
	resolver SymbolResolver
	market   OHLCVSource
	engine   ReportEngine
	prices   PriceProvider
}

func NewAnalysisService(
	tracer trace.Tracer,
	resolver SymbolResolver,
	market OHLCVSource,
	engine ReportEngine,
	prices PriceProvider,
) *AnalysisService {
	return &AnalysisService{
		tracer:   tracer,
		resolver: resolver,
		market:   market,
		engine:   engine,
		prices:   prices,
	}
}

func (s *AnalysisService) Analyze(ctx context.Context, symbolOrID, currency string, days int) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze")
	defer span.End()

	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}
	if days <= 0 {
		days = 30
	}
	interval := domain.IntervalForDays(days)
	span.SetAttributes(
		attribute.String("symbol", symbolOrID),
		attribute.String("currency", currency),
		attribute.Int("days", days),
	)

	coinID, err := s.resolver.Resolve(ctx, symbolOrID)
	if err != nil {
		return nil, domain.NewAnalysisError("resolve", symbolOrID, 0, err)
	}
	span.SetAttributes(attribute.String("coin", coinID))

	candles, err := s.market.GetOHLCV(ctx, coinID, currency, days)
	if err != nil {
		return nil, domain.NewAnalysisError("fetch", coinID, interval, err)
	}

	report, err := s.engine.Analyze(candles)
	if err != nil {
		return nil, domain.NewAnalysisError("analyze", coinID, interval, err)
	}

	report.CoinID = coinID
	report.Currency = currency
	report.Days = days
	report.Interval = interval
	return report, nil
}

// GetCurrentPrice resolves the symbol and returns a live snapshot. The
// snapshot is not cached; it backs interactive price lookups only.
func (s *AnalysisService) GetCurrentPrice(ctx context.Context, symbolOrID, currency string) (*domain.PriceSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.get-current-price")
	defer span.End()

	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}

	coinID, err := s.resolver.Resolve(ctx, symbolOrID)
	if err != nil {
		return nil, domain.NewAnalysisError("resolve", symbolOrID, 0, err)
	}

	snapshot, err := s.prices.SimplePrice(ctx, coinID, currency)
	if err != nil {
		return nil, domain.NewAnalysisError("price", coinID, 0, err)
	}
	return snapshot, nil
}
