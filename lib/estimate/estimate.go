// Package estimate turns battle results into approximate enemy stats and
// compares stat totals.
package estimate

import (
	"math"
	"time"

	"brotherowl-backend/lib/timezone"
)

type Accuracy string

const (
	AccuracyHigh   Accuracy = "high"
	AccuracyMedium Accuracy = "medium"
	AccuracyLow    Accuracy = "low"
)

var totalMultipliers = map[Accuracy]float64{
	AccuracyHigh:   3.5,
	AccuracyMedium: 3.8,
	AccuracyLow:    4.2,
}

// baseDamagePerTurn is the damage per turn dealt between equal primaries.
const baseDamagePerTurn = 240

// EstimatePrimaryStat estimates the enemy's primary stat from the damage
// you dealt over some turns and your own primary stat, rounded to the
// nearest thousand. It reports false when there is nothing to go on.
func EstimatePrimaryStat(damage, turns, myPrimary float64) (float64, bool) {
	if turns <= 0 || damage <= 0 {
		return 0, false
	}
	ratio := math.Pow(damage/turns/baseDamagePerTurn, 0.65)
	estimate := myPrimary * ratio
	return math.RoundToEven(estimate/1000) * 1000, true
}

// EstimateTotalStats extrapolates a total from a primary stat. Unknown
// tiers use the low accuracy multiplier.
func EstimateTotalStats(primary float64, tier Accuracy) int64 {
	multiplier, ok := totalMultipliers[tier]
	if !ok {
		multiplier = totalMultipliers[AccuracyLow]
	}
	return int64(primary * multiplier)
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

const day = 24 * time.Hour

// ConfidenceFor grades stats by how old they are.
func ConfidenceFor(age time.Duration) Confidence {
	switch {
	case age < 7*day:
		return ConfidenceHigh
	case age < 30*day:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ConfidenceAt grades stats recorded at recordedAt. A zero time means there
// is no record.
func ConfidenceAt(now, recordedAt time.Time) Confidence {
	if recordedAt.IsZero() {
		return ConfidenceNone
	}
	return ConfidenceFor(timezone.Age(now, recordedAt))
}

type Verdict int

const (
	VerdictInsufficientData Verdict = iota
	VerdictHighlyFavorable
	VerdictFavorable
	VerdictEven
	VerdictUnfavorable
	VerdictHighlyUnfavorable
)

func (v Verdict) String() string {
	switch v {
	case VerdictHighlyFavorable:
		return "Highly favorable - You significantly outmatch this opponent"
	case VerdictFavorable:
		return "Favorable - You have an advantage"
	case VerdictEven:
		return "Even match - Battle could go either way"
	case VerdictUnfavorable:
		return "Unfavorable - Opponent has an advantage"
	case VerdictHighlyUnfavorable:
		return "Highly unfavorable - Opponent significantly outmatches you"
	default:
		return "Insufficient data for recommendation"
	}
}

// Recommend compares your total stats against an enemy's.
func Recommend(yourTotal, enemyTotal float64) Verdict {
	if yourTotal <= 0 || enemyTotal <= 0 {
		return VerdictInsufficientData
	}
	ratio := yourTotal / enemyTotal
	switch {
	case ratio > 1.5:
		return VerdictHighlyFavorable
	case ratio > 1.1:
		return VerdictFavorable
	case ratio > 0.9:
		return VerdictEven
	case ratio > 0.7:
		return VerdictUnfavorable
	default:
		return VerdictHighlyUnfavorable
	}
}
