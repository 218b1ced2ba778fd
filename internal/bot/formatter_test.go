package bot

import (
	"strings"
	"testing"

	"coinsage/internal/domain"
)

func TestFormatReport(t *testing.T) {
	report := &domain.Report{
		CoinID:   "bitcoin",
		Currency: "usd",
		Days:     30,
		Price:    42000.5,
		Trend: domain.TrendAnalysis{
			Direction:     domain.DirectionBullish,
			SMA20:         41000,
			SMA50:         39000,
			PriceVsSMA20:  2.44,
			StrengthLabel: "Strong",
		},
		Momentum: domain.MomentumAnalysis{
			RSI:      domain.Reading{Indicator: domain.IndicatorRSI, Condition: "Overbought", Available: true},
			RSIValue: 72.3,
			MACD:     domain.Reading{Indicator: domain.IndicatorMACD, Condition: "Bullish Crossover", Available: true},
		},
		Volatility: domain.VolatilityAnalysis{
			Bollinger:     domain.Reading{Indicator: domain.IndicatorBollinger, Available: true},
			BandwidthPct:  12.5,
			VolatilityTag: "Normal",
		},
		Levels: domain.SupportResistance{Support: 40000, Resistance: 43000},
		Summary: domain.Summary{
			Sentiment:  domain.DirectionBullish,
			Confidence: 62,
			Counts:     domain.SignalCounts{Bullish: 5, Bearish: 2, Neutral: 2},
			KeySignals: []domain.KeySignal{
				{Direction: domain.DirectionBullish, Text: "majority of indicators (5/9) show bullish"},
			},
			Risk: domain.RiskAssessment{Category: domain.RiskMedium, Score: 45},
		},
	}

	out := FormatReport(report)

	for _, want := range []string{
		"BITCOIN analysis (30d, USD)",
		"Price: $42000.50",
		"Sentiment: Bullish (confidence 62/100)",
		"Signals: 5 bullish / 2 bearish / 2 neutral",
		"Risk: MEDIUM (45/100)",
		"Trend: Bullish (Strong)",
		"RSI: 72.3 (Overbought)",
		"MACD: Bullish Crossover",
		"Volatility: Normal (bandwidth 12.5%)",
		"Support: $40000.00  Resistance: $43000.00",
		"majority of indicators (5/9) show bullish",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatReportSkipsUnavailableSections(t *testing.T) {
	report := &domain.Report{
		CoinID:   "newcoin",
		Currency: "usd",
		Days:     1,
		Price:    1.5,
		Summary: domain.Summary{
			Sentiment: domain.DirectionNeutral,
			KeySignals: []domain.KeySignal{
				{Direction: domain.DirectionNeutral, Text: "No strong signals detected"},
			},
		},
	}

	out := FormatReport(report)
	if strings.Contains(out, "RSI:") || strings.Contains(out, "MACD:") {
		t.Fatalf("unavailable readings must be omitted:\n%s", out)
	}
	if !strings.Contains(out, "No strong signals detected") {
		t.Fatalf("key signals missing:\n%s", out)
	}
}
