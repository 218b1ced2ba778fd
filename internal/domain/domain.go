package domain

import "time"

// Coin is one entry of the provider's coin directory.
type Coin struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// Interval classifies a request window in days. Each interval carries
// its own cache lifetime: short windows are requested interactively and
// go stale fastest relative to request frequency.
type Interval int

const (
	Interval1Day  Interval = 1
	Interval7Day  Interval = 7
	Interval30Day Interval = 30
	Interval90Day Interval = 90
)

var Intervals = []Interval{Interval1Day, Interval7Day, Interval30Day, Interval90Day}

func (i Interval) TTL() time.Duration {
	switch i {
	case Interval1Day:
		return 5 * time.Minute
	case Interval7Day:
		return 10 * time.Minute
	case Interval30Day:
		return 30 * time.Minute
	case Interval90Day:
		return time.Hour
	}
	return 5 * time.Minute
}

func (i Interval) Days() int { return int(i) }

func (i Interval) IsValid() bool {
	switch i {
	case Interval1Day, Interval7Day, Interval30Day, Interval90Day:
		return true
	}
	return false
}

// IntervalForDays maps an arbitrary requested day count onto the
// smallest interval class that covers it.
func IntervalForDays(days int) Interval {
	switch {
	case days <= 1:
		return Interval1Day
	case days <= 7:
		return Interval7Day
	case days <= 30:
		return Interval30Day
	default:
		return Interval90Day
	}
}

// MetadataTTL is the freshness window for cached coin directory rows.
// It reuses the longest interval's TTL.
func MetadataTTL() time.Duration { return Interval90Day.TTL() }

// Candle is one persisted OHLCV row. Identity is
// (CoinID, Currency, Interval, Timestamp); LastUpdated drives the
// freshness check, not identity.
type Candle struct {
	CoinID      string    `json:"coin_id"`
	Currency    string    `json:"currency"`
	Interval    Interval  `json:"interval"`
	Timestamp   time.Time `json:"timestamp"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	MarketCap   float64   `json:"market_cap,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// PriceSnapshot is a point-in-time market summary for one coin.
type PriceSnapshot struct {
	CoinID       string  `json:"coin_id"`
	Currency     string  `json:"currency"`
	Price        float64 `json:"price"`
	Change24hPct float64 `json:"change_24h_pct"`
	Volume24h    float64 `json:"volume_24h"`
	MarketCap    float64 `json:"market_cap"`
}
