package bot

import (
	"fmt"
	"strings"

	"coinsage/internal/domain"
)

// FormatReport renders a Report as plain Telegram text. Presentation
// only; every number comes straight from the report.
func FormatReport(r *domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s analysis (%dd, %s)\n", strings.ToUpper(r.CoinID), r.Days, strings.ToUpper(r.Currency))
	fmt.Fprintf(&sb, "Price: $%.2f\n\n", r.Price)

	fmt.Fprintf(&sb, "Sentiment: %s (confidence %.0f/100)\n", directionLabel(r.Summary.Sentiment), r.Summary.Confidence)
	fmt.Fprintf(&sb, "Signals: %d bullish / %d bearish / %d neutral\n",
		r.Summary.Counts.Bullish, r.Summary.Counts.Bearish, r.Summary.Counts.Neutral)
	fmt.Fprintf(&sb, "Risk: %s (%.0f/100)\n\n", strings.ToUpper(string(r.Summary.Risk.Category)), r.Summary.Risk.Score)

	fmt.Fprintf(&sb, "Trend: %s", directionLabel(r.Trend.Direction))
	if r.Trend.StrengthLabel != "" {
		fmt.Fprintf(&sb, " (%s)", r.Trend.StrengthLabel)
	}
	sb.WriteString("\n")
	if r.Trend.SMA20 > 0 {
		fmt.Fprintf(&sb, "MA20: $%.2f (%+.2f%%)  MA50: $%.2f\n", r.Trend.SMA20, r.Trend.PriceVsSMA20, r.Trend.SMA50)
	}
	if r.Momentum.RSI.Available {
		fmt.Fprintf(&sb, "RSI: %.1f%s\n", r.Momentum.RSIValue, conditionSuffix(r.Momentum.RSI))
	}
	if r.Momentum.MACD.Available {
		fmt.Fprintf(&sb, "MACD: %s\n", r.Momentum.MACD.Condition)
	}
	if r.Volatility.Bollinger.Available {
		fmt.Fprintf(&sb, "Volatility: %s (bandwidth %.1f%%)\n", r.Volatility.VolatilityTag, r.Volatility.BandwidthPct)
	}
	if r.Levels.Support > 0 {
		fmt.Fprintf(&sb, "Support: $%.2f  Resistance: $%.2f\n", r.Levels.Support, r.Levels.Resistance)
	}

	sb.WriteString("\nKey signals:\n")
	for _, ks := range r.Summary.KeySignals {
		fmt.Fprintf(&sb, "- %s\n", ks.Text)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func directionLabel(d domain.Direction) string {
	switch d {
	case domain.DirectionBullish:
		return "Bullish"
	case domain.DirectionBearish:
		return "Bearish"
	}
	return "Neutral"
}

func conditionSuffix(r domain.Reading) string {
	if r.Condition == "" {
		return ""
	}
	return " (" + r.Condition + ")"
}
