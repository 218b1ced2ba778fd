package analysis

import (
	"math"
	"strings"
	"testing"

	"coinsage/internal/domain"
)

func reading(indicator string, dir domain.Direction, strength float64) domain.Reading {
	return domain.Reading{Indicator: indicator, Direction: dir, Strength: strength, Available: true}
}

func TestAggregateBullishMajority(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorTrendMA, domain.DirectionBullish, 0),
		reading(domain.IndicatorRSI, domain.DirectionBullish, 40),
		reading(domain.IndicatorStoch, domain.DirectionBullish, 30),
		reading(domain.IndicatorMACD, domain.DirectionBullish, 60),
		reading(domain.IndicatorBollinger, domain.DirectionBullish, 0),
		reading(domain.IndicatorOBV, domain.DirectionBullish, 0),
		reading(domain.IndicatorCMF, domain.DirectionBullish, 0),
		reading(domain.IndicatorVWAP, domain.DirectionNeutral, 0),
		reading(domain.IndicatorAD, domain.DirectionBearish, 0),
		reading(domain.IndicatorAD+"_extra", domain.DirectionBearish, 0),
	}
	s := Aggregate(readings, RiskInputs{})
	if s.Counts.Bullish != 7 || s.Counts.Bearish != 2 || s.Counts.Neutral != 1 {
		t.Fatalf("unexpected tally: %+v", s.Counts)
	}
	if s.Sentiment != domain.DirectionBullish {
		t.Fatalf("7/10 bullish must exceed the 60%% threshold, got %s", s.Sentiment)
	}
}

func TestAggregateSixtyPercentIsNotEnough(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorRSI, domain.DirectionBullish, 0),
		reading(domain.IndicatorStoch, domain.DirectionBullish, 0),
		reading(domain.IndicatorMACD, domain.DirectionBullish, 0),
		reading(domain.IndicatorOBV, domain.DirectionNeutral, 0),
		reading(domain.IndicatorCMF, domain.DirectionNeutral, 0),
	}
	s := Aggregate(readings, RiskInputs{})
	if s.Sentiment != domain.DirectionNeutral {
		t.Fatalf("exactly 60%% must stay neutral, got %s", s.Sentiment)
	}
}

func TestAggregateSplitTallyIsNeutral(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorRSI, domain.DirectionBullish, 0),
		reading(domain.IndicatorStoch, domain.DirectionBullish, 0),
		reading(domain.IndicatorMACD, domain.DirectionBullish, 0),
		reading(domain.IndicatorTrendMA, domain.DirectionBullish, 0),
		reading(domain.IndicatorOBV, domain.DirectionBearish, 0),
		reading(domain.IndicatorAD, domain.DirectionBearish, 0),
		reading(domain.IndicatorCMF, domain.DirectionBearish, 0),
		reading(domain.IndicatorVWAP, domain.DirectionBearish, 0),
		reading(domain.IndicatorBollinger, domain.DirectionNeutral, 0),
		reading(domain.IndicatorBollinger+"_extra", domain.DirectionNeutral, 0),
	}
	s := Aggregate(readings, RiskInputs{})
	if s.Sentiment != domain.DirectionNeutral {
		t.Fatalf("4/4/2 split must be neutral, got %s", s.Sentiment)
	}
}

func TestConfidenceBlendsShareAndStrength(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorRSI, domain.DirectionBullish, 40),
		reading(domain.IndicatorMACD, domain.DirectionBullish, 60),
		reading(domain.IndicatorOBV, domain.DirectionBullish, 0),
		reading(domain.IndicatorCMF, domain.DirectionNeutral, 0),
	}
	// dominant share 75%, mean strength (40+60)/2 = 50.
	got := confidence(readings, 75)
	if math.Abs(got-62.5) > 0.001 {
		t.Fatalf("expected confidence 62.5, got %.4f", got)
	}
}

func TestConfidenceDefaultsMeanStrengthToFifty(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorOBV, domain.DirectionBullish, 0),
		reading(domain.IndicatorCMF, domain.DirectionBullish, 0),
	}
	got := confidence(readings, 70)
	if got != 60 {
		t.Fatalf("expected (70+50)/2 = 60, got %.4f", got)
	}
}

func TestConfidenceCapsAtHundred(t *testing.T) {
	readings := []domain.Reading{
		reading(domain.IndicatorRSI, domain.DirectionBullish, 100),
	}
	if got := confidence(readings, 100); got != 100 {
		t.Fatalf("expected cap at 100, got %.4f", got)
	}
}

func TestAggregateEmptyReadings(t *testing.T) {
	s := Aggregate(nil, RiskInputs{})
	if s.Sentiment != domain.DirectionNeutral {
		t.Fatalf("expected neutral sentiment, got %s", s.Sentiment)
	}
	if s.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %.2f", s.Confidence)
	}
	if len(s.KeySignals) != 1 || s.KeySignals[0].Text != "No strong signals detected" {
		t.Fatalf("unexpected key signals: %+v", s.KeySignals)
	}
}

func TestKeySignalsIncludeMajorityVolumeAndRSI(t *testing.T) {
	readings := []domain.Reading{
		{Indicator: domain.IndicatorTrendMA, Direction: domain.DirectionBullish, Condition: "Uptrend", Available: true},
		{Indicator: domain.IndicatorRSI, Direction: domain.DirectionBearish, Condition: "Overbought", Strength: 20, Available: true},
		{Indicator: domain.IndicatorOBV, Direction: domain.DirectionBullish, Condition: "Accumulation", Available: true},
		{Indicator: domain.IndicatorMACD, Direction: domain.DirectionBullish, Condition: "Bullish Crossover", Strength: 30, Available: true},
	}
	s := Aggregate(readings, RiskInputs{})

	var haveMajority, haveVolume, haveRSI, haveTrend bool
	for _, sig := range s.KeySignals {
		switch {
		case strings.Contains(sig.Text, "majority of indicators (3/4) show bullish"):
			haveMajority = true
		case strings.Contains(sig.Text, "Accumulation"):
			haveVolume = true
		case strings.Contains(sig.Text, "RSI Overbought"):
			haveRSI = true
		case strings.Contains(sig.Text, "moving averages show Uptrend"):
			haveTrend = true
		}
	}
	if !haveMajority || !haveVolume || !haveRSI || !haveTrend {
		t.Fatalf("missing key signals: %+v", s.KeySignals)
	}
}

func TestAssessRiskAveragesPresentComponents(t *testing.T) {
	r := assessRisk(RiskInputs{
		BandwidthPct: 30, HasBandwidth: true,
		ADX: 40, HasADX: true,
		VolumeRatio: 1.0, HasVolume: true,
	})
	// (30 + (100-40) + 50) / 3 = 46.67
	if math.Abs(r.Score-140.0/3) > 0.001 {
		t.Fatalf("unexpected score %.4f", r.Score)
	}
	if r.Category != domain.RiskMedium {
		t.Fatalf("expected medium risk, got %s", r.Category)
	}
}

func TestAssessRiskSkipsMissingComponents(t *testing.T) {
	r := assessRisk(RiskInputs{ADX: 10, HasADX: true})
	if r.Score != 90 {
		t.Fatalf("expected score 90 from ADX alone, got %.2f", r.Score)
	}
	if r.Category != domain.RiskHigh {
		t.Fatalf("expected high risk, got %s", r.Category)
	}
}

func TestAssessRiskAllMissing(t *testing.T) {
	r := assessRisk(RiskInputs{})
	if r.Score != 0 || r.Category != domain.RiskLow {
		t.Fatalf("expected zero score low risk, got %+v", r)
	}
}

func TestAssessRiskClampsComponents(t *testing.T) {
	r := assessRisk(RiskInputs{VolumeRatio: 5.0, HasVolume: true})
	if r.Score != 100 {
		t.Fatalf("volume component must clamp at 100, got %.2f", r.Score)
	}
}
