package analysis

import (
	"math"

	"coinsage/internal/domain"
)

// Interpretation is pure: raw indicator values in, a tagged Reading
// out. No I/O, no state. Threshold tables live here and nowhere else.

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
	rsiScale      = 3.33

	stochOverbought = 80.0
	stochOversold   = 20.0
	stochBandScale  = 5.0
	stochLeadScale  = 2.0

	macdHistScale = 100.0

	bandwidthHighPct = 20.0
)

func interpretRSI(raw float64) domain.Reading {
	r := domain.Reading{Indicator: domain.IndicatorRSI, Direction: domain.DirectionNeutral, Available: true}
	switch {
	case raw > rsiOverbought:
		r.Direction = domain.DirectionBearish
		r.Condition = "Overbought"
		r.Strength = math.Min(100, (raw-rsiOverbought)*rsiScale)
	case raw < rsiOversold:
		r.Direction = domain.DirectionBullish
		r.Condition = "Oversold"
		r.Strength = math.Min(100, (rsiOversold-raw)*rsiScale)
	}
	return r
}

func interpretStochastic(k, d float64) domain.Reading {
	r := domain.Reading{Indicator: domain.IndicatorStoch, Direction: domain.DirectionNeutral, Available: true}
	switch {
	case k > stochOverbought && d > stochOverbought:
		r.Direction = domain.DirectionBearish
		r.Condition = "Overbought"
		r.Strength = math.Min(100, (k-stochOverbought)*stochBandScale)
	case k < stochOversold && d < stochOversold:
		r.Direction = domain.DirectionBullish
		r.Condition = "Oversold"
		r.Strength = math.Min(100, (stochOversold-k)*stochBandScale)
	default:
		// Between the bands the leading line decides.
		if k > d {
			r.Direction = domain.DirectionBullish
			r.Condition = "K above D"
		} else if k < d {
			r.Direction = domain.DirectionBearish
			r.Condition = "K below D"
		}
		r.Strength = math.Min(100, math.Abs(k-d)*stochLeadScale)
	}
	return r
}

func interpretMACD(macd, signal, hist float64) domain.Reading {
	r := domain.Reading{Indicator: domain.IndicatorMACD, Direction: domain.DirectionNeutral, Condition: "None", Available: true}
	switch {
	case macd > signal && hist > 0:
		r.Direction = domain.DirectionBullish
		r.Condition = "Bullish Crossover"
		r.Strength = math.Min(100, math.Abs(hist)*macdHistScale)
	case macd < signal && hist < 0:
		r.Direction = domain.DirectionBearish
		r.Condition = "Bearish Crossover"
		r.Strength = math.Min(100, math.Abs(hist)*macdHistScale)
	}
	return r
}

// interpretADX conveys trend strength, not direction; the reading stays
// neutral and the aggregator keeps it out of the directional tally.
func interpretADX(raw float64) domain.Reading {
	r := domain.Reading{Indicator: domain.IndicatorADX, Direction: domain.DirectionNeutral, Available: true}
	switch {
	case raw >= 50:
		r.Condition = "Very Strong"
		r.Strength = 100
	case raw >= 25:
		r.Condition = "Strong"
		r.Strength = 75
	case raw >= 20:
		r.Condition = "Moderate"
		r.Strength = 50
	default:
		r.Condition = "Weak"
		r.Strength = 25
	}
	return r
}

func interpretBollinger(price, upper, middle, lower float64) (domain.Reading, float64, string) {
	r := domain.Reading{Indicator: domain.IndicatorBollinger, Direction: domain.DirectionNeutral, Available: true}
	switch {
	case price >= upper:
		r.Direction = domain.DirectionBearish
		r.Condition = "Overbought"
	case price <= lower:
		r.Direction = domain.DirectionBullish
		r.Condition = "Oversold"
	}

	bandwidth := 0.0
	if middle != 0 {
		bandwidth = (upper - lower) / middle * 100
	}
	tag := "Normal"
	if bandwidth > bandwidthHighPct {
		tag = "High"
	}
	return r, bandwidth, tag
}

// interpretTrendMA follows price against the short and long moving
// averages. When the window is too short for the long average the
// short average's own slope substitutes for it, so a 40-sample window
// can still report a trend.
func interpretTrendMA(price, sma20, sma20Prev, sma50 float64, haveSMA50 bool) domain.Reading {
	r := domain.Reading{Indicator: domain.IndicatorTrendMA, Direction: domain.DirectionNeutral, Available: true}

	longRef := sma50
	if !haveSMA50 {
		longRef = sma20Prev
	}
	switch {
	case price > sma20 && sma20 > longRef:
		r.Direction = domain.DirectionBullish
		r.Condition = "Uptrend"
	case price < sma20 && sma20 < longRef:
		r.Direction = domain.DirectionBearish
		r.Condition = "Downtrend"
	default:
		r.Condition = "Sideways"
	}
	return r
}

// Volume-family readings are confirmation signals: direction only, no
// strength scaling.

func interpretOBV(curr, prev float64) domain.Reading {
	return signReading(domain.IndicatorOBV, curr-prev, "Accumulation", "Distribution")
}

func interpretADLine(curr, prev float64) domain.Reading {
	return signReading(domain.IndicatorAD, curr-prev, "Accumulation", "Distribution")
}

func interpretCMF(value float64) domain.Reading {
	return signReading(domain.IndicatorCMF, value, "Buying Pressure", "Selling Pressure")
}

func interpretVWAP(price, vwap float64) domain.Reading {
	return signReading(domain.IndicatorVWAP, price-vwap, "Above VWAP", "Below VWAP")
}

func signReading(indicator string, delta float64, upLabel, downLabel string) domain.Reading {
	r := domain.Reading{Indicator: indicator, Direction: domain.DirectionNeutral, Available: true}
	if delta > 0 {
		r.Direction = domain.DirectionBullish
		r.Condition = upLabel
	} else if delta < 0 {
		r.Direction = domain.DirectionBearish
		r.Condition = downLabel
	}
	return r
}

// unavailableReading is the substitute for an indicator whose lookback
// exceeds the available history.
func unavailableReading(indicator string) domain.Reading {
	return domain.Reading{Indicator: indicator, Direction: domain.DirectionNeutral, Available: false}
}
