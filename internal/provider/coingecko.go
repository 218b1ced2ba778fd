package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"coinsage/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider is the upstream market data source. Failures are
// surfaced as fetch errors and never retried here; the cache layer
// decides what to do with them.
type CoinGeckoProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	tracer  trace.Tracer
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return NewCoinGeckoProviderWithBaseURL(tracer, defaultBaseURL, "")
}

func NewCoinGeckoProviderWithBaseURL(tracer trace.Tracer, baseURL, apiKey string) *CoinGeckoProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CoinGeckoProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		tracer:  tracer,
	}
}

type marketChartResponse struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// FetchOHLCV fetches the /ohlc series and merges per-timestamp volume
// and market cap from /market_chart into it. Rows come back sorted by
// timestamp with duplicates dropped.
func (p *CoinGeckoProvider) FetchOHLCV(ctx context.Context, coinID, currency string, days int) ([]domain.Candle, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-ohlcv")
	defer span.End()
	span.SetAttributes(attribute.String("coin", coinID), attribute.Int("days", days))

	var ohlc [][]float64
	params := url.Values{"vs_currency": {currency}, "days": {fmt.Sprint(days)}}
	if err := p.getJSON(ctx, "/coins/"+url.PathEscape(coinID)+"/ohlc", params, &ohlc); err != nil {
		return nil, err
	}

	var chart marketChartResponse
	if err := p.getJSON(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", params, &chart); err != nil {
		return nil, err
	}

	volumes := seriesByMillis(chart.TotalVolumes)
	caps := seriesByMillis(chart.MarketCaps)

	candles := make([]domain.Candle, 0, len(ohlc))
	seen := make(map[int64]struct{}, len(ohlc))
	for _, row := range ohlc {
		if len(row) < 5 {
			continue
		}
		ms := int64(row[0])
		if _, dup := seen[ms]; dup {
			continue
		}
		seen[ms] = struct{}{}
		candles = append(candles, domain.Candle{
			CoinID:    coinID,
			Currency:  currency,
			Timestamp: time.UnixMilli(ms).UTC(),
			Open:      row[1],
			High:      row[2],
			Low:       row[3],
			Close:     row[4],
			Volume:    nearestValue(volumes, ms),
			MarketCap: nearestValue(caps, ms),
		})
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// SearchCoin queries the provider's search endpoint. An empty result is
// not an error; the resolver decides whether to treat it as a miss.
func (p *CoinGeckoProvider) SearchCoin(ctx context.Context, query string) ([]domain.Coin, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.search-coin")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	var resp struct {
		Coins []struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"coins"`
	}
	if err := p.getJSON(ctx, "/search", url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, len(resp.Coins))
	for _, c := range resp.Coins {
		coins = append(coins, domain.Coin{ID: c.ID, Symbol: c.Symbol, Name: c.Name})
	}
	return coins, nil
}

// ListCoins fetches the full coin directory.
func (p *CoinGeckoProvider) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.list-coins")
	defer span.End()

	var resp []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
	if err := p.getJSON(ctx, "/coins/list", nil, &resp); err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, len(resp))
	for _, c := range resp {
		coins = append(coins, domain.Coin{ID: c.ID, Symbol: c.Symbol, Name: c.Name})
	}
	return coins, nil
}

// SimplePrice fetches the current price snapshot for one coin.
func (p *CoinGeckoProvider) SimplePrice(ctx context.Context, coinID, currency string) (*domain.PriceSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.simple-price")
	defer span.End()
	span.SetAttributes(attribute.String("coin", coinID))

	params := url.Values{
		"ids":                {coinID},
		"vs_currencies":      {currency},
		"include_market_cap": {"true"},
		"include_24hr_vol":   {"true"},
		"include_24hr_change": {"true"},
	}
	var resp map[string]map[string]float64
	if err := p.getJSON(ctx, "/simple/price", params, &resp); err != nil {
		return nil, err
	}

	entry, ok := resp[coinID]
	if !ok {
		return nil, fmt.Errorf("no price returned for %s: %w", coinID, domain.ErrProviderUnavailable)
	}
	return &domain.PriceSnapshot{
		CoinID:       coinID,
		Currency:     currency,
		Price:        entry[currency],
		Change24hPct: entry[currency+"_24h_change"],
		Volume24h:    entry[currency+"_24h_vol"],
		MarketCap:    entry[currency+"_market_cap"],
	}, nil
}

func (p *CoinGeckoProvider) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := p.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko request %s: %v: %w", path, err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("coingecko %s returned %d: %w", path, resp.StatusCode, domain.ErrProviderUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("coingecko decode %s: %v: %w", path, err, domain.ErrProviderUnavailable)
	}
	return nil
}

func seriesByMillis(series [][]float64) []pointMs {
	points := make([]pointMs, 0, len(series))
	for _, row := range series {
		if len(row) < 2 {
			continue
		}
		points = append(points, pointMs{ms: int64(row[0]), value: row[1]})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ms < points[j].ms })
	return points
}

type pointMs struct {
	ms    int64
	value float64
}

// nearestValue picks the series point closest in time to ms. Chart and
// OHLC timestamps are bucketed differently upstream, so an exact join
// is not possible.
func nearestValue(points []pointMs, ms int64) float64 {
	if len(points) == 0 {
		return 0
	}
	idx := sort.Search(len(points), func(i int) bool { return points[i].ms >= ms })
	if idx == 0 {
		return points[0].value
	}
	if idx == len(points) {
		return points[len(points)-1].value
	}
	if points[idx].ms-ms < ms-points[idx-1].ms {
		return points[idx].value
	}
	return points[idx-1].value
}
