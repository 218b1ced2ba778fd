package domain

import "time"

type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Indicator keys used across readings, key signals, and the API.
const (
	IndicatorTrendMA   = "trend_ma"
	IndicatorRSI       = "rsi"
	IndicatorStoch     = "stochastic"
	IndicatorMACD      = "macd"
	IndicatorADX       = "adx"
	IndicatorBollinger = "bollinger"
	IndicatorOBV       = "obv"
	IndicatorAD        = "ad_line"
	IndicatorCMF       = "cmf"
	IndicatorVWAP      = "vwap"
)

// Reading is one interpreted indicator signal. Strength is 0-100.
// Available is false when the series was too short for the indicator's
// lookback and a neutral zero reading was substituted.
type Reading struct {
	Indicator string    `json:"indicator"`
	Direction Direction `json:"direction"`
	Condition string    `json:"condition,omitempty"`
	Strength  float64   `json:"strength"`
	Available bool      `json:"available"`
}

// Neutral readings from the volume family confirm rather than drive the
// verdict; the aggregator treats them without strength scaling.
func (r Reading) IsVolumeFamily() bool {
	switch r.Indicator {
	case IndicatorOBV, IndicatorAD, IndicatorCMF, IndicatorVWAP:
		return true
	}
	return false
}

type TrendAnalysis struct {
	Direction     Direction `json:"direction"`
	SMA20         float64   `json:"sma_20"`
	SMA50         float64   `json:"sma_50"`
	EMA20         float64   `json:"ema_20"`
	PriceVsSMA20  float64   `json:"price_vs_sma20_pct"`
	PriceVsSMA50  float64   `json:"price_vs_sma50_pct"`
	StrengthADX   float64   `json:"adx"`
	StrengthLabel string    `json:"adx_label"`
}

type MomentumAnalysis struct {
	RSI        Reading `json:"rsi"`
	RSIValue   float64 `json:"rsi_value"`
	Stoch      Reading `json:"stochastic"`
	StochK     float64 `json:"stoch_k"`
	StochD     float64 `json:"stoch_d"`
	MACD       Reading `json:"macd"`
	MACDValue  float64 `json:"macd_value"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
}

type VolatilityAnalysis struct {
	Bollinger     Reading `json:"bollinger"`
	UpperBand     float64 `json:"bb_upper"`
	MiddleBand    float64 `json:"bb_middle"`
	LowerBand     float64 `json:"bb_lower"`
	BandwidthPct  float64 `json:"bandwidth_pct"`
	VolatilityTag string  `json:"volatility"`
	ATR           float64 `json:"atr"`
}

type VolumeAnalysis struct {
	OBV         Reading `json:"obv"`
	ADLine      Reading `json:"ad_line"`
	CMF         Reading `json:"cmf"`
	VWAP        Reading `json:"vwap"`
	Last        float64 `json:"last_volume"`
	Average     float64 `json:"average_volume"`
	VolumeRatio float64 `json:"volume_ratio"`
}

type SupportResistance struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

type KeySignal struct {
	Direction Direction `json:"direction"`
	Text      string    `json:"text"`
}

type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

type RiskAssessment struct {
	Score    float64      `json:"score"`
	Category RiskCategory `json:"category"`
}

// SignalCounts is the per-direction tally over all readings in a run.
type SignalCounts struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

func (c SignalCounts) Total() int { return c.Bullish + c.Bearish + c.Neutral }

// Summary is the aggregated verdict over one analysis run.
type Summary struct {
	Sentiment  Direction    `json:"sentiment"`
	Confidence float64      `json:"confidence"`
	Counts     SignalCounts `json:"counts"`
	KeySignals []KeySignal  `json:"key_signals"`
	Risk       RiskAssessment `json:"risk"`
}

// Report is the full analysis output for one coin. It is produced
// fresh per request and never cached; only its inputs are.
type Report struct {
	CoinID      string             `json:"coin_id"`
	Currency    string             `json:"currency"`
	Days        int                `json:"days"`
	Interval    Interval           `json:"interval"`
	Price       float64            `json:"price"`
	Trend       TrendAnalysis      `json:"trend"`
	Momentum    MomentumAnalysis   `json:"momentum"`
	Volatility  VolatilityAnalysis `json:"volatility"`
	Volume      VolumeAnalysis     `json:"volume"`
	Levels      SupportResistance  `json:"levels"`
	Summary     Summary            `json:"summary"`
	GeneratedAt time.Time          `json:"generated_at"`
}
