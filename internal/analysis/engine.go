package analysis

import (
	"fmt"
	"sort"
	"time"

	"coinsage/internal/domain"
)

// Fewer than this many usable closes and the whole trend group would be
// built on misleading moving averages, so the run fails explicitly.
const hardFloorSamples = 10

// Engine turns a raw OHLCV window into an interpreted, aggregated
// Report. It is deterministic for a fixed candle input and clock.
type Engine struct {
	now func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

func (e *Engine) Analyze(candles []domain.Candle) (*domain.Report, error) {
	sorted := make([]domain.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	closes := make([]float64, len(sorted))
	highs := make([]float64, len(sorted))
	lows := make([]float64, len(sorted))
	volumes := make([]float64, len(sorted))
	for i, c := range sorted {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	if len(closes) < hardFloorSamples {
		return nil, fmt.Errorf("%d samples, need at least %d: %w",
			len(closes), hardFloorSamples, domain.ErrInsufficientHistory)
	}

	price := closes[len(closes)-1]
	report := &domain.Report{
		Price:       price,
		GeneratedAt: e.now().UTC(),
	}
	if len(sorted) > 0 {
		report.CoinID = sorted[0].CoinID
		report.Currency = sorted[0].Currency
		report.Interval = sorted[0].Interval
	}

	// Trend group.
	sma20, sma20Prev, ok20 := smaLastPair(closes, smaShortPeriod)
	sma50, ok50 := smaLast(closes, smaLongPeriod)
	ema20, _ := emaLast(closes, emaPeriod)

	trendReading := unavailableReading(domain.IndicatorTrendMA)
	if ok20 {
		trendReading = interpretTrendMA(price, sma20, sma20Prev, sma50, ok50)
	}
	report.Trend = domain.TrendAnalysis{
		Direction: trendReading.Direction,
		SMA20:     sma20,
		SMA50:     sma50,
		EMA20:     ema20,
	}
	if ok20 && sma20 != 0 {
		report.Trend.PriceVsSMA20 = (price/sma20 - 1) * 100
	}
	if ok50 && sma50 != 0 {
		report.Trend.PriceVsSMA50 = (price/sma50 - 1) * 100
	}

	adxValue, okADX := adxLast(highs, lows, closes)
	adxReading := unavailableReading(domain.IndicatorADX)
	if okADX {
		adxReading = interpretADX(adxValue)
		report.Trend.StrengthADX = adxValue
	}
	report.Trend.StrengthLabel = adxReading.Condition

	// Momentum group.
	rsiReading := unavailableReading(domain.IndicatorRSI)
	if rsi, ok := rsiLast(closes); ok {
		rsiReading = interpretRSI(rsi)
		report.Momentum.RSIValue = rsi
	}
	report.Momentum.RSI = rsiReading

	stochReading := unavailableReading(domain.IndicatorStoch)
	if k, d, ok := stochLast(highs, lows, closes); ok {
		stochReading = interpretStochastic(k, d)
		report.Momentum.StochK = k
		report.Momentum.StochD = d
	}
	report.Momentum.Stoch = stochReading

	macdReading := unavailableReading(domain.IndicatorMACD)
	if macd, signal, hist, ok := macdLast(closes); ok {
		macdReading = interpretMACD(macd, signal, hist)
		report.Momentum.MACDValue = macd
		report.Momentum.MACDSignal = signal
		report.Momentum.MACDHist = hist
	}
	report.Momentum.MACD = macdReading

	// Volatility group.
	bbReading := unavailableReading(domain.IndicatorBollinger)
	var bandwidth float64
	var okBB bool
	if upper, middle, lower, ok := bbandsLast(closes); ok {
		okBB = true
		var tag string
		bbReading, bandwidth, tag = interpretBollinger(price, upper, middle, lower)
		report.Volatility = domain.VolatilityAnalysis{
			UpperBand:     upper,
			MiddleBand:    middle,
			LowerBand:     lower,
			BandwidthPct:  bandwidth,
			VolatilityTag: tag,
		}
	}
	report.Volatility.Bollinger = bbReading
	if atr, ok := atrLast(highs, lows, closes); ok {
		report.Volatility.ATR = atr
	}

	// Volume group.
	obvReading := unavailableReading(domain.IndicatorOBV)
	if curr, prev, ok := obvLastPair(closes, volumes); ok {
		obvReading = interpretOBV(curr, prev)
	}
	adReading := unavailableReading(domain.IndicatorAD)
	if curr, prev, ok := adLastPair(highs, lows, closes, volumes); ok {
		adReading = interpretADLine(curr, prev)
	}
	cmfReading := unavailableReading(domain.IndicatorCMF)
	if cmf, ok := cmfLast(highs, lows, closes, volumes); ok {
		cmfReading = interpretCMF(cmf)
	}
	vwapReading := unavailableReading(domain.IndicatorVWAP)
	if vwap, ok := vwapLast(highs, lows, closes, volumes); ok {
		vwapReading = interpretVWAP(price, vwap)
	}

	lastVolume := volumes[len(volumes)-1]
	avgVolume := averageVolume(volumes)
	report.Volume = domain.VolumeAnalysis{
		OBV:     obvReading,
		ADLine:  adReading,
		CMF:     cmfReading,
		VWAP:    vwapReading,
		Last:    lastVolume,
		Average: avgVolume,
	}
	if avgVolume > 0 {
		report.Volume.VolumeRatio = lastVolume / avgVolume
	}

	support, resistance := rollingLevels(highs, lows)
	report.Levels = domain.SupportResistance{Support: support, Resistance: resistance}

	// Aggregate. ADX stays out of the tally: it has no direction and
	// feeds the risk score instead.
	readings := []domain.Reading{
		trendReading,
		rsiReading,
		stochReading,
		macdReading,
		bbReading,
		obvReading,
		adReading,
		cmfReading,
		vwapReading,
	}
	riskInputs := RiskInputs{
		BandwidthPct: bandwidth,
		HasBandwidth: okBB,
		ADX:          adxValue,
		HasADX:       okADX,
		VolumeRatio:  report.Volume.VolumeRatio,
		HasVolume:    avgVolume > 0,
	}
	report.Summary = Aggregate(readings, riskInputs)

	return report, nil
}
