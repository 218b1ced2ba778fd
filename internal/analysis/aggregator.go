package analysis

import (
	"fmt"
	"math"

	"coinsage/internal/domain"
)

const sentimentThreshold = 0.6

// RiskInputs carries the normalized risk components. A missing
// component is excluded from the average rather than defaulted to
// zero, which would artificially lower risk.
type RiskInputs struct {
	BandwidthPct float64
	HasBandwidth bool
	ADX          float64
	HasADX       bool
	VolumeRatio  float64
	HasVolume    bool
}

// Aggregate is a pure, stateless reduction: same readings, same
// Summary. Unavailable readings count as neutral in the tally.
func Aggregate(readings []domain.Reading, risk RiskInputs) domain.Summary {
	summary := domain.Summary{
		Sentiment:  domain.DirectionNeutral,
		KeySignals: []domain.KeySignal{},
		Risk:       assessRisk(risk),
	}

	for _, r := range readings {
		switch r.Direction {
		case domain.DirectionBullish:
			summary.Counts.Bullish++
		case domain.DirectionBearish:
			summary.Counts.Bearish++
		default:
			summary.Counts.Neutral++
		}
	}

	total := summary.Counts.Total()
	if total == 0 {
		summary.KeySignals = append(summary.KeySignals, domain.KeySignal{
			Direction: domain.DirectionNeutral,
			Text:      "No strong signals detected",
		})
		return summary
	}

	bullishPct := float64(summary.Counts.Bullish) / float64(total) * 100
	bearishPct := float64(summary.Counts.Bearish) / float64(total) * 100

	if bullishPct > sentimentThreshold*100 {
		summary.Sentiment = domain.DirectionBullish
	} else if bearishPct > sentimentThreshold*100 {
		summary.Sentiment = domain.DirectionBearish
	}

	summary.Confidence = confidence(readings, math.Max(bullishPct, bearishPct))
	summary.KeySignals = keySignals(readings, summary.Counts)
	return summary
}

// confidence blends the dominant direction's share with the mean
// strength of the non-neutral readings. When no reading carries a
// numeric strength the mean term defaults to 50 so confidence does not
// collapse to the percentage term alone.
func confidence(readings []domain.Reading, dominantPct float64) float64 {
	var sum float64
	var n int
	for _, r := range readings {
		if r.Direction == domain.DirectionNeutral || r.Strength <= 0 {
			continue
		}
		sum += r.Strength
		n++
	}
	meanStrength := 50.0
	if n > 0 {
		meanStrength = sum / float64(n)
	}
	return math.Min(100, (dominantPct+meanStrength)/2)
}

func keySignals(readings []domain.Reading, counts domain.SignalCounts) []domain.KeySignal {
	signals := make([]domain.KeySignal, 0, 4)
	seen := make(map[string]struct{}, 4)

	add := func(dir domain.Direction, text string) {
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		signals = append(signals, domain.KeySignal{Direction: dir, Text: text})
	}

	total := counts.Total()
	if counts.Bullish > counts.Bearish {
		add(domain.DirectionBullish, fmt.Sprintf("majority of indicators (%d/%d) show bullish", counts.Bullish, total))
	} else if counts.Bearish > counts.Bullish {
		add(domain.DirectionBearish, fmt.Sprintf("majority of indicators (%d/%d) show bearish", counts.Bearish, total))
	}

	for _, r := range readings {
		if r.IsVolumeFamily() && r.Direction != domain.DirectionNeutral {
			add(r.Direction, fmt.Sprintf("%s: %s", r.Indicator, r.Condition))
		}
	}

	for _, r := range readings {
		if r.Indicator == domain.IndicatorRSI && r.Direction != domain.DirectionNeutral {
			add(r.Direction, fmt.Sprintf("RSI %s", r.Condition))
		}
		if r.Indicator == domain.IndicatorTrendMA && r.Direction != domain.DirectionNeutral {
			add(r.Direction, fmt.Sprintf("moving averages show %s", r.Condition))
		}
	}

	if len(signals) == 0 {
		signals = append(signals, domain.KeySignal{
			Direction: domain.DirectionNeutral,
			Text:      "No strong signals detected",
		})
	}
	return signals
}

// assessRisk averages three normalized components: band width (wide
// bands, volatile market), inverse trend strength (weak trend, choppy
// market), and relative volume. Missing components drop out of the
// average.
func assessRisk(in RiskInputs) domain.RiskAssessment {
	var sum float64
	var n int

	if in.HasBandwidth {
		sum += math.Min(100, in.BandwidthPct)
		n++
	}
	if in.HasADX {
		sum += 100 - math.Min(100, in.ADX)
		n++
	}
	if in.HasVolume {
		sum += math.Min(100, in.VolumeRatio*50)
		n++
	}

	assessment := domain.RiskAssessment{Category: domain.RiskLow}
	if n == 0 {
		return assessment
	}

	assessment.Score = sum / float64(n)
	switch {
	case assessment.Score > 70:
		assessment.Category = domain.RiskHigh
	case assessment.Score > 30:
		assessment.Category = domain.RiskMedium
	}
	return assessment
}
