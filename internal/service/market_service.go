package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"coinsage/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

type OHLCVStore interface {
	GetRange(ctx context.Context, coinID, currency string, interval domain.Interval, from, to time.Time) ([]domain.Candle, error)
	ReplaceRange(ctx context.Context, candles []domain.Candle) error
}

type MarketProvider interface {
	FetchOHLCV(ctx context.Context, coinID, currency string, days int) ([]domain.Candle, error)
}

// MarketDataService is the interval-aware OHLCV cache. Reads prefer the
// in-process Redis layer, then the persistent store if every row is
// still inside its interval's TTL, and only then the upstream provider.
// Concurrent misses for the same key collapse into one upstream fetch.
type MarketDataService struct {
	tracer   trace.Tracer
	provider MarketProvider
	store    OHLCVStore
	redis    *redis.Client
	group    singleflight.Group
	now      func() time.Time
}

func NewMarketDataService(tracer trace.Tracer, provider MarketProvider, store OHLCVStore, redisClient *redis.Client) *MarketDataService {
	return &MarketDataService{
		tracer:   tracer,
		provider: provider,
		store:    store,
		redis:    redisClient,
		now:      time.Now,
	}
}

// GetOHLCV returns the candle window for (coin, currency, days),
// fetching upstream only when the cached window is missing or stale.
func (s *MarketDataService) GetOHLCV(ctx context.Context, coinID, currency string, days int) ([]domain.Candle, error) {
	interval := domain.IntervalForDays(days)
	key := fmt.Sprintf("%s|%s|%d", coinID, currency, interval)

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetchOrReuse(ctx, coinID, currency, interval, days)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Candle), nil
}

func (s *MarketDataService) fetchOrReuse(ctx context.Context, coinID, currency string, interval domain.Interval, days int) ([]domain.Candle, error) {
	ctx, span := s.tracer.Start(ctx, "market.fetch-or-reuse")
	defer span.End()
	span.SetAttributes(
		attribute.String("coin", coinID),
		attribute.String("currency", currency),
		attribute.Int("interval_days", interval.Days()),
	)

	now := s.now().UTC()
	from := now.Add(-time.Duration(interval.Days()) * 24 * time.Hour)

	if cached, ok := s.readRedis(ctx, coinID, currency, interval); ok {
		span.SetAttributes(attribute.String("cache", "redis"))
		return cached, nil
	}

	var stale []domain.Candle
	if s.store != nil {
		rows, err := s.store.GetRange(ctx, coinID, currency, interval, from, now)
		if err != nil {
			log.Printf("ohlcv store read error for %s: %v", coinID, err)
		} else if len(rows) > 0 {
			if allFresh(rows, now, interval.TTL()) {
				span.SetAttributes(attribute.String("cache", "store"))
				s.writeRedis(ctx, coinID, currency, interval, rows)
				return rows, nil
			}
			// One stale row spoils the window, but keep it around as a
			// fallback in case the provider is down.
			stale = rows
		}
	}

	fetched, err := s.provider.FetchOHLCV(ctx, coinID, currency, days)
	if err != nil {
		if len(stale) > 0 {
			log.Printf("provider fetch failed for %s, serving %d stale rows: %v", coinID, len(stale), err)
			return stale, nil
		}
		return nil, fmt.Errorf("fetch ohlcv for %s: %w", coinID, err)
	}

	for i := range fetched {
		fetched[i].Interval = interval
		fetched[i].LastUpdated = now
	}

	if s.store != nil && len(fetched) > 0 {
		if err := s.store.ReplaceRange(ctx, fetched); err != nil {
			// Best-effort cache: a failed write must not fail the read.
			log.Printf("%v for %s %s %dd: %v", domain.ErrCacheWriteConflict, coinID, currency, interval.Days(), err)
		}
	}
	s.writeRedis(ctx, coinID, currency, interval, fetched)

	span.SetAttributes(attribute.String("cache", "miss"))
	return fetched, nil
}

func allFresh(rows []domain.Candle, now time.Time, ttl time.Duration) bool {
	threshold := now.Add(-ttl)
	for _, r := range rows {
		if !r.LastUpdated.After(threshold) {
			return false
		}
	}
	return true
}

func redisKey(coinID, currency string, interval domain.Interval) string {
	return fmt.Sprintf("ohlcv:%s:%s:%dd", coinID, currency, interval.Days())
}

func (s *MarketDataService) readRedis(ctx context.Context, coinID, currency string, interval domain.Interval) ([]domain.Candle, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, redisKey(coinID, currency, interval)).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []domain.Candle
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Printf("redis ohlcv decode error for %s: %v", coinID, err)
		return nil, false
	}
	// The entry's expiry tracks the rows' freshness window, but judge
	// the rows themselves too: an entry written elsewhere or surviving
	// a clock skew must not outlive last_updated + TTL.
	if len(rows) == 0 || !allFresh(rows, s.now().UTC(), interval.TTL()) {
		return nil, false
	}
	return rows, true
}

func (s *MarketDataService) writeRedis(ctx context.Context, coinID, currency string, interval domain.Interval, rows []domain.Candle) {
	if s.redis == nil || len(rows) == 0 {
		return
	}
	// Rows reused from the store have already burned part of their
	// freshness window. The entry expires when the oldest row does,
	// never a full TTL measured from now.
	ttl := interval.TTL() - s.now().UTC().Sub(oldestUpdate(rows))
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, redisKey(coinID, currency, interval), raw, ttl).Err(); err != nil {
		log.Printf("redis ohlcv write error for %s: %v", coinID, err)
	}
}

func oldestUpdate(rows []domain.Candle) time.Time {
	oldest := rows[0].LastUpdated
	for _, r := range rows[1:] {
		if r.LastUpdated.Before(oldest) {
			oldest = r.LastUpdated
		}
	}
	return oldest
}
