package analysis

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Minimum sample counts per indicator. Series shorter than an
// indicator's lookback produce a substituted neutral reading instead
// of failing the whole report.
const (
	smaShortPeriod = 20
	smaLongPeriod  = 50
	emaPeriod      = 20

	rsiPeriod    = 14
	rsiMinLen    = rsiPeriod + 1
	stochMinLen  = 20
	macdMinLen   = 33
	adxPeriod    = 14
	adxMinLen    = 2 * adxPeriod
	bbandsPeriod = 20
	atrPeriod    = 14
	atrMinLen    = atrPeriod + 1
	cmfPeriod    = 20
	cmfMinLen    = cmfPeriod + 1

	levelsWindow = 20
	volumeWindow = 20
)

// last returns the most recent defined value in a talib output series.
// The library pads the unwarmed head with zeros; with the length
// guards above the tail is always warmed, so NaN is the only thing
// left to skip.
func last(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i], true
		}
	}
	return 0, false
}

func smaLast(closes []float64, period int) (float64, bool) {
	if len(closes) < period {
		return 0, false
	}
	return last(talib.Sma(closes, period))
}

// smaLastPair returns the two most recent values so callers can read
// the average's slope.
func smaLastPair(closes []float64, period int) (curr, prev float64, ok bool) {
	if len(closes) < period+1 {
		return 0, 0, false
	}
	series := talib.Sma(closes, period)
	return series[len(series)-1], series[len(series)-2], true
}

func emaLast(closes []float64, period int) (float64, bool) {
	if len(closes) < period {
		return 0, false
	}
	return last(talib.Ema(closes, period))
}

func rsiLast(closes []float64) (float64, bool) {
	if len(closes) < rsiMinLen {
		return 0, false
	}
	return last(talib.Rsi(closes, rsiPeriod))
}

func stochLast(highs, lows, closes []float64) (k, d float64, ok bool) {
	if len(closes) < stochMinLen {
		return 0, 0, false
	}
	slowK, slowD := talib.Stoch(highs, lows, closes, 14, 3, talib.SMA, 3, talib.SMA)
	k, okK := last(slowK)
	d, okD := last(slowD)
	return k, d, okK && okD
}

func macdLast(closes []float64) (macd, signal, hist float64, ok bool) {
	if len(closes) < macdMinLen {
		return 0, 0, 0, false
	}
	macdLine, signalLine, histLine := talib.Macd(closes, 12, 26, 9)
	macd, okM := last(macdLine)
	signal, okS := last(signalLine)
	hist, okH := last(histLine)
	return macd, signal, hist, okM && okS && okH
}

func adxLast(highs, lows, closes []float64) (float64, bool) {
	if len(closes) < adxMinLen {
		return 0, false
	}
	return last(talib.Adx(highs, lows, closes, adxPeriod))
}

func bbandsLast(closes []float64) (upper, middle, lower float64, ok bool) {
	if len(closes) < bbandsPeriod {
		return 0, 0, 0, false
	}
	up, mid, low := talib.BBands(closes, bbandsPeriod, 2.0, 2.0, talib.SMA)
	upper, okU := last(up)
	middle, okM := last(mid)
	lower, okL := last(low)
	return upper, middle, lower, okU && okM && okL
}

func atrLast(highs, lows, closes []float64) (float64, bool) {
	if len(closes) < atrMinLen {
		return 0, false
	}
	return last(talib.Atr(highs, lows, closes, atrPeriod))
}

func obvLastPair(closes, volumes []float64) (curr, prev float64, ok bool) {
	if len(closes) < 2 {
		return 0, 0, false
	}
	series := talib.Obv(closes, volumes)
	return series[len(series)-1], series[len(series)-2], true
}

func adLastPair(highs, lows, closes, volumes []float64) (curr, prev float64, ok bool) {
	if len(closes) < 2 {
		return 0, 0, false
	}
	series := talib.Ad(highs, lows, closes, volumes)
	return series[len(series)-1], series[len(series)-2], true
}

// cmfLast is the Chaikin Money Flow over the trailing period: money
// flow volume summed over the window divided by total volume. Not in
// the indicator library, so computed here.
func cmfLast(highs, lows, closes, volumes []float64) (float64, bool) {
	if len(closes) < cmfMinLen {
		return 0, false
	}
	var mfvSum, volSum float64
	for i := len(closes) - cmfPeriod; i < len(closes); i++ {
		span := highs[i] - lows[i]
		if span == 0 || volumes[i] == 0 {
			continue
		}
		multiplier := ((closes[i] - lows[i]) - (highs[i] - closes[i])) / span
		mfvSum += multiplier * volumes[i]
		volSum += volumes[i]
	}
	if volSum == 0 {
		return 0, false
	}
	return mfvSum / volSum, true
}

// vwapLast is the volume-weighted average of the typical price across
// the whole window.
func vwapLast(highs, lows, closes, volumes []float64) (float64, bool) {
	var weighted, volSum float64
	for i := range closes {
		typical := (highs[i] + lows[i] + closes[i]) / 3
		weighted += typical * volumes[i]
		volSum += volumes[i]
	}
	if volSum == 0 {
		return 0, false
	}
	return weighted / volSum, true
}

func rollingLevels(highs, lows []float64) (support, resistance float64) {
	window := levelsWindow
	if len(highs) < window {
		window = len(highs)
	}
	if window == 0 {
		return 0, 0
	}
	support = lows[len(lows)-1]
	resistance = highs[len(highs)-1]
	for i := len(highs) - window; i < len(highs); i++ {
		if lows[i] < support {
			support = lows[i]
		}
		if highs[i] > resistance {
			resistance = highs[i]
		}
	}
	return support, resistance
}

func averageVolume(volumes []float64) float64 {
	window := volumeWindow
	if len(volumes) < window {
		window = len(volumes)
	}
	if window == 0 {
		return 0
	}
	var sum float64
	for i := len(volumes) - window; i < len(volumes); i++ {
		sum += volumes[i]
	}
	return sum / float64(window)
}
