package service

import (
	"fmt"
	"math"
	"strings"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/pkg/utils"
)

// sentimentAggregate condenses the recent sentiment window for one symbol
// into a single directional vote.
type sentimentAggregate struct {
	Signal      string
	Strength    float64
	Dominant    string
	LatestTitle string
}

// aggregateSentiment averages the class scores over the given window
// (newest first) and maps the dominant class to a direction. An empty
// window yields a neutral default instead of an error.
func aggregateSentiment(rows []entity.SentimentResult) sentimentAggregate {
	if len(rows) == 0 {
		return sentimentAggregate{
			Signal:   entity.SignalNeutral,
			Strength: 0.5,
			Dominant: entity.SentimentNeutral,
		}
	}

	var negative, neutral, positive float64
	for _, row := range rows {
		negative += row.Negative
		neutral += row.Neutral
		positive += row.Positive
	}
	n := float64(len(rows))
	negative /= n
	neutral /= n
	positive /= n

	// Ties resolve in class order, so an all-equal window stays neutral
	// only when neutral actually wins the argmax.
	dominant, strength := entity.SentimentNegative, negative
	if neutral > strength {
		dominant, strength = entity.SentimentNeutral, neutral
	}
	if positive > strength {
		dominant, strength = entity.SentimentPositive, positive
	}

	signal := entity.SignalNeutral
	switch dominant {
	case entity.SentimentPositive:
		signal = entity.SignalBuy
	case entity.SentimentNegative:
		signal = entity.SignalSell
	}

	return sentimentAggregate{
		Signal:      signal,
		Strength:    strength,
		Dominant:    dominant,
		LatestTitle: rows[0].Title,
	}
}

// fuseSignals combines the technical and sentiment votes into one
// direction and strength. Agreement reinforces with the mean, conflict
// suppresses to NEUTRAL at the peak strength, and a lone directional vote
// is blended with the silent side's strength (technical weighted 70/30,
// sentiment 60/40).
func fuseSignals(techSignal string, techStrength float64, sentSignal string, sentStrength float64) (string, float64) {
	techDirectional := techSignal != entity.SignalNeutral
	sentDirectional := sentSignal != entity.SignalNeutral

	switch {
	case techDirectional && sentDirectional && techSignal == sentSignal:
		return techSignal, (techStrength + sentStrength) / 2
	case techDirectional && sentDirectional:
		return entity.SignalNeutral, math.Max(techStrength, sentStrength)
	case techDirectional:
		return techSignal, 0.7*techStrength + 0.3*sentStrength
	case sentDirectional:
		return sentSignal, 0.6*sentStrength + 0.4*techStrength
	default:
		return entity.SignalNeutral, (techStrength + sentStrength) / 2
	}
}

// buildReason renders the clauses behind a fused signal. Only directional
// inputs contribute a clause; when both sides are neutral the reason is
// empty.
func buildReason(analysis *entity.TechnicalAnalysis, sentiment sentimentAggregate) string {
	var clauses []string
	switch analysis.OverallSignal {
	case entity.SignalBuy:
		clauses = append(clauses, "technical indicators point to an uptrend")
	case entity.SignalSell:
		clauses = append(clauses, "technical indicators point to a downtrend")
	}
	switch sentiment.Signal {
	case entity.SignalBuy:
		clauses = append(clauses, fmt.Sprintf("positive news coverage (latest: %q)", sentiment.LatestTitle))
	case entity.SignalSell:
		clauses = append(clauses, fmt.Sprintf("negative news coverage (latest: %q)", sentiment.LatestTitle))
	}
	if len(clauses) == 0 {
		return ""
	}
	return utils.CapitalizeSentence(strings.Join(clauses, " and "))
}
